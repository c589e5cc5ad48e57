package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"

	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
)

// sessionSubjectKey is the session key under which the signed-in subject is
// stored. The authorizer reads the same key.
const sessionSubjectKey = "user_subject"

// AuthHandler holds the dependencies for the authentication handlers.
// The SSO authenticator is optional; when it is nil only the password
// sign-in path is served.
type AuthHandler struct {
	creds *auth.Credentials
	sso   *auth.Authenticator
	sm    session.Manager
	view  *view.View
	log   logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(creds *auth.Credentials, sso *auth.Authenticator, sm session.Manager, v *view.View, log logger.Logger) *AuthHandler {
	return &AuthHandler{creds: creds, sso: sso, sm: sm, view: v, log: log}
}

// loginFormHandler renders the sign-in form.
func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	data := map[string]interface{}{
		"SSOEnabled": h.sso != nil,
		"Flash":      h.sm.PopString(r.Context(), "flash"),
	}
	if err := h.view.Render(w, r, "login.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
	}
	return nil
}

// signInHandler verifies an email/password pair and establishes the session.
// A failed attempt re-renders the form with a flash message and never says
// which half was wrong.
func (h *AuthHandler) signInHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Malformed form submission", Code: http.StatusBadRequest}
	}
	subject, err := h.creds.SignIn(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.sm.Put(r.Context(), "flash", "Invalid email or password")
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Sign-in failed", Code: http.StatusInternalServerError}
	}

	h.sm.Put(r.Context(), sessionSubjectKey, subject)
	h.log.With(map[string]interface{}{"subject": subject}).Info("user signed in")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
	return nil
}

// signOutHandler destroys the session and returns to the public site.
func (h *AuthHandler) signOutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sm.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Sign-out failed", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

// ssoHandler redirects to the OIDC provider. It uses a random 'state'
// string for CSRF protection, stored in a short-lived cookie.
func (h *AuthHandler) ssoHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.sso == nil {
		return &middleware.AppError{Error: errors.New("sso not configured"), Message: "Single sign-on is not enabled", Code: http.StatusNotFound}
	}
	state, err := randString(16)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start sign-in", Code: http.StatusInternalServerError}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "state",
		Value:    state,
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
	})
	http.Redirect(w, r, h.sso.AuthCodeURL(state), http.StatusFound)
	return nil
}

// callbackHandler is the redirect URL for the OIDC provider. It handles the
// code exchange, verifies the ID token, and establishes the session from
// the token's email claim.
func (h *AuthHandler) callbackHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.sso == nil {
		return &middleware.AppError{Error: errors.New("sso not configured"), Message: "Single sign-on is not enabled", Code: http.StatusNotFound}
	}
	stateCookie, err := r.Cookie("state")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "State cookie not found", Code: http.StatusBadRequest}
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		return &middleware.AppError{Error: errors.New("state mismatch"), Message: "State did not match", Code: http.StatusBadRequest}
	}

	oauth2Token, err := h.sso.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to exchange token", Code: http.StatusInternalServerError}
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return &middleware.AppError{Error: errors.New("no id_token in token response"), Message: "Sign-in failed", Code: http.StatusInternalServerError}
	}

	// The OIDC library internally checks the issuer, audience, and expiry.
	idToken, err := h.sso.IDTokenVerifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to verify identity token", Code: http.StatusInternalServerError}
	}
	subject, err := subjectFromClaims(idToken)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Sign-in failed", Code: http.StatusInternalServerError}
	}

	h.sm.Put(r.Context(), sessionSubjectKey, subject)
	h.log.With(map[string]interface{}{"subject": subject}).Info("user signed in via sso")
	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// subjectFromClaims picks the session subject from the verified token,
// preferring the email claim over the opaque subject identifier.
func subjectFromClaims(token *oidc.IDToken) (string, error) {
	var claims struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil {
		return "", err
	}
	if claims.Email != "" {
		return claims.Email, nil
	}
	return token.Subject, nil
}

// randString generates a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
