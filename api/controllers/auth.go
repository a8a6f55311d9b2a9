package controllers

import (
	"context"
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	"github.com/kermes/kermes-panel/internal/auth"
	"github.com/kermes/kermes-panel/internal/session"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
)

type loginChecker interface {
	LoggedIn(ctx context.Context) (bool, error)
}

// LoginState tells the login screen whether to skip straight to the dashboard.
type LoginState struct {
	LoggedIn bool   `json:"logged_in"`
	Redirect string `json:"redirect,omitempty"`
}

type LoginResult struct {
	User     any    `json:"user,omitempty"`
	Redirect string `json:"redirect"`
}

// Dashboard is the index screen: the navigation built from the route registry.
type Dashboard struct {
	Routes []routes.Route `json:"routes"`
}

func LoginScreen(sessions loginChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := sessions.LoggedIn(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session lookup failed"))
			return
		}
		state := LoginState{LoggedIn: ok}
		if ok {
			state.Redirect = routes.MustResolve(routes.Index, nil)
		}
		responses.WriteSuccess(w, state)
	}
}

// Login stores the token under a fresh session id and moves the client to it, so an id
// known before the login never becomes authenticated.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fresh := session.Rotate(r.Context())
		result, err := svc.Login(fresh, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Logout(r.Context()); err != nil {
			logg.Error(r.Context(), "session.previous_clear_failed", err)
		}
		session.Bind(fresh)

		out := LoginResult{Redirect: routes.MustResolve(routes.Index, nil)}
		if len(result.User) > 0 {
			out.User = result.User
		}
		responses.WriteSuccess(w, out)
	}
}

// Logout clears the token and moves the client to a fresh, empty session.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "logout failed"))
			return
		}
		session.Bind(session.Rotate(r.Context()))
		responses.WriteSuccess(w, LoginResult{Redirect: routes.MustResolve(routes.Login, nil)})
	}
}

func Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, Dashboard{Routes: routes.All()})
	}
}
