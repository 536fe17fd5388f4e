package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-idverify-api/internal/application/account"
	"github.com/go-idverify-api/internal/config"
	"github.com/go-idverify-api/internal/domain"
	jwtinfra "github.com/go-idverify-api/internal/infrastructure/jwt"
	"github.com/go-idverify-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAccountSvc struct{ mock.Mock }

func (m *mockAccountSvc) Login(ctx context.Context, req account.LoginRequest) (*account.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*account.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountSvc) Current(ctx context.Context, sessionID string) (*domain.User, bool, error) {
	args := m.Called(ctx, sessionID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Bool(1), args.Error(2)
	}
	return nil, false, args.Error(2)
}

func (m *mockAccountSvc) ValidateSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockAccountSvc) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockAccountSvc) ListAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- helpers ---

func testProvider() *jwtinfra.Provider {
	return jwtinfra.NewProvider(&config.Config{SecretKey: "test-secret", SessionExpiryDays: 1})
}

func testRouter(svc account.Service, provider *jwtinfra.Provider) http.Handler {
	h := NewSessionHandler(svc)
	r := chi.NewRouter()
	r.Post("/sessions/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(provider, svc))
		r.Get("/sessions", h.GetCurrent)
		r.Post("/sessions/logout", h.Logout)
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestLoginHandler_Success(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Login", mock.Anything, account.LoginRequest{Email: "a@x.com", Password: "pw1"}).
		Return(&account.LoginResult{
			Token:                "tok",
			User:                 &domain.User{Email: "a@x.com"},
			VerificationRequired: true,
		}, nil)
	router := testRouter(svc, testProvider())

	rec := postJSON(t, router, "/sessions/login", map[string]string{"email": "a@x.com", "password": "pw1"}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var env AuthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "tok", env.Token)
	assert.True(t, env.VerificationRequired)
	assert.Contains(t, env.Message, "verification")
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, domain.ErrUnauthorized)
	router := testRouter(svc, testProvider())

	rec := postJSON(t, router, "/sessions/login", map[string]string{"email": "a@x.com", "password": "bad"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginHandler_MissingFields(t *testing.T) {
	svc := &mockAccountSvc{}
	router := testRouter(svc, testProvider())

	rec := postJSON(t, router, "/sessions/login", map[string]string{"email": "a@x.com"}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLoginHandler_InvalidEmail(t *testing.T) {
	svc := &mockAccountSvc{}
	router := testRouter(svc, testProvider())

	rec := postJSON(t, router, "/sessions/login", map[string]string{"email": "nope", "password": "pw"}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCurrent_RequiresToken(t *testing.T) {
	router := testRouter(&mockAccountSvc{}, testProvider())

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCurrent_ReturnsVerificationFlag(t *testing.T) {
	provider := testProvider()
	tok, err := provider.Sign("a@x.com", "s1")
	require.NoError(t, err)

	svc := &mockAccountSvc{}
	svc.On("ValidateSession", mock.Anything, "s1").Return(nil)
	svc.On("Current", mock.Anything, "s1").
		Return(&domain.User{Email: "a@x.com", SSN: "123-45-6789"}, false, nil)
	router := testRouter(svc, provider)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env SessionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.VerificationRequired)
	assert.True(t, env.User.Verified)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogoutHandler(t *testing.T) {
	provider := testProvider()
	tok, err := provider.Sign("a@x.com", "s1")
	require.NoError(t, err)

	svc := &mockAccountSvc{}
	svc.On("ValidateSession", mock.Anything, "s1").Return(nil)
	svc.On("Logout", mock.Anything, "s1").Return(nil)
	router := testRouter(svc, provider)

	rec := postJSON(t, router, "/sessions/logout", nil, tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
