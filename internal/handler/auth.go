package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"cms/internal/domain/services"
	"cms/internal/httputil"
)

// maxCredentialForm bounds sign-in and sign-up bodies
const maxCredentialForm = 64 << 10

// AuthHandler handles sign-in, sign-out and sign-up
type AuthHandler struct {
	credentials services.CredentialService
	gate        services.AccessGate
	openSignup  bool
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler. With openSignup false only
// signed-in users may create accounts.
func NewAuthHandler(credentials services.CredentialService, gate services.AccessGate, openSignup bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		gate:        gate,
		openSignup:  openSignup,
		logger:      logger,
	}
}

// SignIn attaches the user to the session
// POST /users/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(w, r, maxCredentialForm); err != nil {
		handleFormError(w, err)
		return
	}

	err := h.credentials.SignIn(r.Context(), httputil.GetSession(r), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.Redirect(w, r, "/")
}

// SignOut clears the user from the session
// POST /users/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.credentials.SignOut(httputil.GetSession(r))
	httputil.Redirect(w, r, "/")
}

// SignUp creates an account
// POST /users/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	sess := httputil.GetSession(r)
	if !h.openSignup {
		if err := h.gate.Require(sess); err != nil {
			handleError(w, r, h.logger, err)
			return
		}
	}

	if err := httputil.ParseForm(w, r, maxCredentialForm); err != nil {
		handleFormError(w, err)
		return
	}

	username := r.FormValue("username")
	if err := h.credentials.CreateAccount(r.Context(), username, r.FormValue("password")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	sess.SetMessage(fmt.Sprintf("%s can now sign in.", username))
	httputil.Redirect(w, r, "/")
}
