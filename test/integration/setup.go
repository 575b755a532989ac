package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	apihttp "github.com/mvalle/auth-api/internal/adapters/handler/http"
	pgrepo "github.com/mvalle/auth-api/internal/adapters/repository/postgres"
	"github.com/mvalle/auth-api/internal/core/services"
)

const (
	testJWTSecret  = "test-secret"
	accessTokenTTL = 15 * time.Minute
	resetTokenTTL  = 24 * time.Hour
)

type testApp struct {
	DB        *sql.DB
	Server    *httptest.Server
	Client    *http.Client
	Mailer    *recordingMailer
	Hasher    *services.PasswordHasher
	container testcontainers.Container
}

// recordingMailer stands in for SMTP so reset tokens can be read back in tests.
type recordingMailer struct {
	tokens []string
}

func (m *recordingMailer) SendPasswordReset(_, _, token string) error {
	m.tokens = append(m.tokens, token)
	return nil
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, applyMigrations(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	userRepo := pgrepo.NewUserRepository(db)
	blacklistRepo := pgrepo.NewBlacklistRepository(db)
	hasher := services.NewPasswordHasher()
	tokens := services.NewTokenService(testJWTSecret)
	mailer := &recordingMailer{}

	authService := services.NewAuthService(
		userRepo, blacklistRepo, tokens, hasher, mailer,
		accessTokenTTL, resetTokenTTL, log,
	)
	userService := services.NewUserService(userRepo, hasher, log)

	server := httptest.NewServer(apihttp.NewHandler(authService, userService))

	return &testApp{
		DB:        db,
		Server:    server,
		Client:    server.Client(),
		Mailer:    mailer,
		Hasher:    hasher,
		container: container,
	}
}

func (app *testApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	app.DB.Close()
	require.NoError(t, app.container.Terminate(context.Background()))
}

// createUser inserts a user directly, sidestepping the signup endpoint, so
// tests can control is_superuser and is_active.
func (app *testApp) createUser(t *testing.T, email, password string, superuser bool) uuid.UUID {
	t.Helper()

	hash, err := app.Hasher.Hash(password)
	require.NoError(t, err)

	var id uuid.UUID
	err = app.DB.QueryRow(
		`INSERT INTO users (email, hashed_password, full_name, is_superuser)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		email, hash, "Integration User", superuser,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// login drives the real login endpoint and returns the bearer token.
func (app *testApp) login(t *testing.T, email, password string) string {
	t.Helper()

	resp, err := app.Client.PostForm(app.Server.URL+"/api/v1/auth/login",
		map[string][]string{"username": {email}, "password": {password}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, jsonDecode(resp.Body, &body))
	require.Equal(t, "bearer", body.TokenType)
	return body.AccessToken
}

func jsonDecode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// do sends an authenticated JSON request against the test server.
func (app *testApp) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}
