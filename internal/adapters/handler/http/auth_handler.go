package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mvalle/auth-api/internal/core/domain"
	"github.com/mvalle/auth-api/internal/core/ports"
)

const minPasswordLength = 8

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req ports.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "email and full_name are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	user, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, domain.ErrEmailTaken.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login accepts OAuth2-style form credentials: username carries the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	email := r.FormValue("username")
	password := r.FormValue("password")

	token, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
		case errors.Is(err, domain.ErrInactiveUser):
			writeError(w, http.StatusBadRequest, domain.ErrInactiveUser.Error())
		default:
			writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	token, ok := TokenFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	if err := h.authService.Logout(r.Context(), token, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeMessage(w, "Successfully logged out")
}

type recoverPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req recoverPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.authService.RecoverPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeMessage(w, "Password recovery email sent")
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			writeError(w, http.StatusBadRequest, domain.ErrInvalidResetToken.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeMessage(w, "Password updated successfully")
}
