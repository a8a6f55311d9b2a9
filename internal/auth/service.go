package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/kermes/kermes-panel/internal/apiclient"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/logger"
)

const (
	// UnexpectedErrorMessage is shown when the API accepts the login but returns no token.
	UnexpectedErrorMessage = "Beklenmeyen bir hata oluştu."
	// LoginFailedMessage is shown when a rejected login carries no message of its own.
	LoginFailedMessage = "Giriş başarısız."
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context) error
}

type poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

type tokenStore interface {
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type service struct {
	api      poster
	sessions tokenStore
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	API      poster
	Sessions tokenStore
	Logger   *logger.Logger
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: params.API, sessions: params.Sessions, logg: logg}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)

	var payload loginPayload
	if err := s.api.Post(ctx, apiclient.LoginPath, req, &payload); err != nil {
		typed := pkgerrors.As(err)
		switch {
		case typed == nil, typed.Code() == pkgerrors.CodeDependency:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, UnexpectedErrorMessage)
		case typed.Code() == pkgerrors.CodeUnauthorized && typed.Message() == apiclient.LoginRequiredMessage:
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, LoginFailedMessage)
		}
		return nil, err
	}

	token := strings.TrimSpace(payload.Token)
	if token == "" {
		s.logg.Warn(ctx, "auth.login.missing_token")
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, UnexpectedErrorMessage)
	}
	if err := s.sessions.SetToken(ctx, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store session token")
	}

	s.logg.Info(s.logg.WithField(ctx, "email", req.Email), "auth.login.succeeded")
	return &LoginResponse{User: payload.User}, nil
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.sessions.ClearToken(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session token")
	}
	s.logg.Info(ctx, "auth.logout")
	return nil
}
