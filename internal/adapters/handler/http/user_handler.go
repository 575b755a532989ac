package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mvalle/auth-api/internal/core/domain"
	"github.com/mvalle/auth-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
	authService ports.AuthService
}

func NewUserHandler(userService ports.UserService, authService ports.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var input ports.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Password != nil && len(*input.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	updated, err := h.userService.UpdateMe(r.Context(), user, input)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, domain.ErrEmailTaken.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	err := h.authService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeMessage(w, "Password updated successfully")
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requester, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), requester, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
		case errors.Is(err, domain.ErrNotEnoughPrivileges):
			// 400, not 403: reads of other users reject as a bad request.
			writeError(w, http.StatusBadRequest, "not enough permissions")
		default:
			writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateByID(w http.ResponseWriter, r *http.Request) {
	requester, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var input ports.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateByID(r.Context(), requester, id, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEnoughPrivileges):
			writeError(w, http.StatusForbidden, "not enough permissions to update this user")
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
		case errors.Is(err, domain.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, domain.ErrEmailTaken.Error())
		default:
			writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	requester, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), requester, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
		case errors.Is(err, domain.ErrNotEnoughPrivileges):
			writeError(w, http.StatusForbidden, "not enough permissions to delete users")
		case errors.Is(err, domain.ErrSelfDelete):
			writeError(w, http.StatusBadRequest, domain.ErrSelfDelete.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	writeMessage(w, fmt.Sprintf("User %s deleted successfully", id))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := h.userService.List(r.Context(), requester, skip, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotEnoughPrivileges) {
			writeError(w, http.StatusForbidden, "not enough permissions, only superusers can access this endpoint")
			return
		}
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}
