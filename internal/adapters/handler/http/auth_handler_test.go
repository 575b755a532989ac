package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvalle/auth-api/internal/core/domain"
)

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSignupHandler(t *testing.T) {
	auth := &fakeAuthService{}
	h := NewAuthHandler(auth)
	handler := http.HandlerFunc(h.Signup)

	t.Run("success", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/v1/auth/signup",
			`{"email":"alice@example.com","password":"long-enough-pw","full_name":"Alice"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var user domain.User
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("short password", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/v1/auth/signup",
			`{"email":"alice@example.com","password":"short","full_name":"Alice"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/v1/auth/signup", `{"password":"long-enough-pw"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := &fakeAuthService{signupErr: domain.ErrEmailTaken}
		rec := postJSON(t, http.HandlerFunc(NewAuthHandler(dup).Signup), "/api/v1/auth/signup",
			`{"email":"alice@example.com","password":"long-enough-pw","full_name":"Alice"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "already exists")
	})
}

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	form := url.Values{"username": {"alice@example.com"}, "password": {"s3cret-password"}}

	t.Run("success", func(t *testing.T) {
		auth := &fakeAuthService{loginToken: "signed-token"}
		rec := postForm(t, http.HandlerFunc(NewAuthHandler(auth).Login), "/api/v1/auth/login", form)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp tokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "signed-token", resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
	})

	t.Run("bad credentials", func(t *testing.T) {
		auth := &fakeAuthService{loginErr: domain.ErrInvalidCredentials}
		rec := postForm(t, http.HandlerFunc(NewAuthHandler(auth).Login), "/api/v1/auth/login", form)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("inactive user", func(t *testing.T) {
		auth := &fakeAuthService{loginErr: domain.ErrInactiveUser}
		rec := postForm(t, http.HandlerFunc(NewAuthHandler(auth).Login), "/api/v1/auth/login", form)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutHandler_RequiresAuth(t *testing.T) {
	auth := &fakeAuthService{}
	// Router wiring: logout sits behind the Authenticator.
	handler := NewHandler(auth, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutHandler(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", IsActive: true}
	auth := &fakeAuthService{token: "good-token", user: user}
	handler := NewHandler(auth, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Successfully logged out")
}

func TestResetPasswordHandler(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		auth := &fakeAuthService{}
		auth.resetErr = domain.ErrInvalidResetToken
		rec := postJSON(t, http.HandlerFunc(NewAuthHandler(auth).ResetPassword), "/api/v1/auth/reset-password",
			`{"token":"expired","new_password":"long-enough-pw"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		auth := &fakeAuthService{}
		rec := postJSON(t, http.HandlerFunc(NewAuthHandler(auth).ResetPassword), "/api/v1/auth/reset-password",
			`{"token":"valid","new_password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
