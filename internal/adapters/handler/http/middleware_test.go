package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvalle/auth-api/internal/core/domain"
	"github.com/mvalle/auth-api/internal/core/ports"
)

// fakeAuthService resolves one known token to one user and rejects the rest.
type fakeAuthService struct {
	token string
	user  *domain.User

	loginToken string
	loginErr   error
	signupErr  error
	logoutErr  error
	resetErr   error
}

func (f *fakeAuthService) Signup(_ context.Context, input ports.SignupInput) (*domain.User, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &domain.User{ID: uuid.New(), Email: input.Email, FullName: input.FullName, IsActive: true}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeAuthService) Authorize(_ context.Context, token string) (*domain.User, error) {
	if f.user != nil && token == f.token {
		return f.user, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (f *fakeAuthService) Logout(_ context.Context, _ string, _ uuid.UUID) error {
	return f.logoutErr
}

func (f *fakeAuthService) ChangePassword(_ context.Context, _ uuid.UUID, _, _ string) error {
	return nil
}

func (f *fakeAuthService) RecoverPassword(_ context.Context, _ string) error { return nil }

func (f *fakeAuthService) ResetPassword(_ context.Context, _, _ string) error { return f.resetErr }

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := UserFromContext(r.Context())
		if !ok {
			http.Error(w, "no user in context", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}), &called
}

func TestAuthenticator_ValidToken(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", IsActive: true}
	auth := &fakeAuthService{token: "good-token", user: user}

	next, called := okHandler()
	handler := Authenticator(auth)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_RejectsUniformly(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com", IsActive: true}
	auth := &fakeAuthService{token: "good-token", user: user}

	cases := map[string]func(r *http.Request){
		"missing header": func(r *http.Request) {},
		"wrong scheme":   func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
		"unknown token":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad-token") },
	}

	var bodies []string
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			next, called := okHandler()
			handler := Authenticator(auth)(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mutate(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.False(t, *called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

			body, err := io.ReadAll(rec.Body)
			require.NoError(t, err)
			bodies = append(bodies, string(body))
		})
	}

	// Every rejection carries the exact same body so the failing check
	// cannot be told apart from outside.
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}

func TestRequireActive(t *testing.T) {
	inactive := &domain.User{ID: uuid.New(), Email: "alice@example.com", IsActive: false}
	auth := &fakeAuthService{token: "good-token", user: inactive}

	next, called := okHandler()
	handler := Authenticator(auth)(RequireActive(next))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "inactive user")
}
