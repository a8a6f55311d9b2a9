package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "42"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-server-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	if !Expired(signedToken(t, &past), now) {
		t.Fatalf("expected past exp to be expired")
	}
	if Expired(signedToken(t, &future), now) {
		t.Fatalf("expected future exp to be valid")
	}
	if Expired(signedToken(t, nil), now) {
		t.Fatalf("token without exp should not expire")
	}
}

func TestExpiredIgnoresOpaqueTokens(t *testing.T) {
	now := time.Now()
	for _, token := range []string{"", "12|8eJ1kq0opaquesanctumtoken", "a.b.c"} {
		if Expired(token, now) {
			t.Fatalf("opaque token %q should not be expired", token)
		}
	}
}

func TestBearerHeader(t *testing.T) {
	if got := BearerHeader(" abc "); got != "Bearer abc" {
		t.Fatalf("unexpected header %q", got)
	}
}
