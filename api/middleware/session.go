package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/internal/session"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/logger"
)

// CookieOptions shapes the panel session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type loginChecker interface {
	LoggedIn(ctx context.Context) (bool, error)
}

// Session binds every request to a panel session id carried in a cookie, minting one
// on first visit. The id only keys the token store; it never carries the token itself.
// Handlers move the client to a new id with session.Rotate and session.Bind.
func Session(opts CookieOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	if opts.Name == "" {
		opts.Name = "kermes_panel_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(opts.Name); err == nil && cookie.Value != "" {
				id = cookie.Value
			} else {
				id = session.NewID()
				http.SetCookie(w, sessionCookie(opts, id))
			}

			ctx := session.WithID(r.Context(), id)
			ctx = session.WithBinder(ctx, func(newID string) {
				w.Header().Del("Set-Cookie")
				http.SetCookie(w, sessionCookie(opts, newID))
			})
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionCookie(opts CookieOptions, id string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     opts.Name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.TTL > 0 {
		cookie.MaxAge = int(opts.TTL.Seconds())
	}
	return cookie
}

// RequireLogin rejects requests whose session holds no token. Clients follow the
// redirect in the error envelope to the login screen.
func RequireLogin(sessions loginChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := sessions.LoggedIn(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
				return
			}
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, apiclient.ErrLoginRequired, apiclient.LoginRequiredMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
