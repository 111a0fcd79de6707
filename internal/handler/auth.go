package handler

import (
	"log/slog"
	"net/http"

	"github.com/summaize/summaize/internal/auth"
	"github.com/summaize/summaize/internal/service"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	auth       *service.AuthService
	logger     *slog.Logger
	production bool
}

func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger, production bool) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger, production: production}
}

type registerRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// loginResponse mirrors the contract the SPA expects: the token also travels
// in the body (for non-cookie API clients) and userId is camelCase, unlike
// the snake_case resource payloads.
type loginResponse struct {
	Token   string `json:"token"`
	UserID  int64  `json:"userId"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleRegister creates an account.
//
// POST /api/auth/register {"login": ..., "email": ..., "password": ...}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	if _, err := h.auth.Register(r.Context(), req.Login, req.Email, req.Password); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "registration_success"})
}

// HandleLogin verifies credentials, sets the session cookie, and returns the
// token in the body.
//
// POST /api/auth/login {"login": ..., "password": ...}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	h.setSessionCookie(w, result.Token)

	writeJSON(w, http.StatusOK, loginResponse{
		Token:   result.Token,
		UserID:  result.User.ID,
		Message: "Login successful",
	})
}

// HandleLogout clears the session cookie. The token itself stays valid until
// expiry — there is no server-side revocation.
//
// POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})
}
