package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-idverify-api/internal/domain"
	"github.com/go-idverify-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) Submit(ctx context.Context, email string, fields domain.VerificationFields) (*domain.User, error) {
	args := m.Called(ctx, email, fields)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func verificationRouter(svc *mockVerificationSvc, sessions middleware.SessionChecker) http.Handler {
	h := NewVerificationHandler(svc)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(testProvider(), sessions))
		r.Post("/verification", h.Submit)
	})
	return r
}

func liveSessions(sessionID string) *mockAccountSvc {
	svc := &mockAccountSvc{}
	svc.On("ValidateSession", mock.Anything, sessionID).Return(nil)
	return svc
}

func TestSubmitHandler_RequiresSession(t *testing.T) {
	router := verificationRouter(&mockVerificationSvc{}, &mockAccountSvc{})

	rec := postJSON(t, router, "/verification", map[string]string{"ssn": "123-45-6789"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitHandler_RevokedSessionRejected(t *testing.T) {
	provider := testProvider()
	tok, err := provider.Sign("a@x.com", "s1")
	require.NoError(t, err)

	sessions := &mockAccountSvc{}
	sessions.On("ValidateSession", mock.Anything, "s1").
		Return(fmt.Errorf("session expired: %w", domain.ErrUnauthorized))
	svc := &mockVerificationSvc{}
	router := verificationRouter(svc, sessions)

	// The token itself is still valid; only the server-side session was
	// disabled by logout. The record must stay untouched.
	rec := postJSON(t, router, "/verification", map[string]string{"ssn": "123-45-6789"}, tok)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitHandler_MergesForSessionEmail(t *testing.T) {
	provider := testProvider()
	tok, err := provider.Sign("a@x.com", "s1")
	require.NoError(t, err)

	svc := &mockVerificationSvc{}
	svc.On("Submit", mock.Anything, "a@x.com", domain.VerificationFields{SSN: "123-45-6789"}).
		Return(&domain.User{Email: "a@x.com", SSN: "123-45-6789"}, nil)
	router := verificationRouter(svc, liveSessions("s1"))

	rec := postJSON(t, router, "/verification", map[string]string{"ssn": "123-45-6789"}, tok)

	require.Equal(t, http.StatusOK, rec.Code)
	var env SessionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.VerificationRequired)
	assert.True(t, env.User.Verified)
	svc.AssertExpectations(t)
}

func TestSubmitHandler_EmptyPayload(t *testing.T) {
	provider := testProvider()
	tok, err := provider.Sign("a@x.com", "s1")
	require.NoError(t, err)

	svc := &mockVerificationSvc{}
	svc.On("Submit", mock.Anything, "a@x.com", domain.VerificationFields{}).
		Return(nil, domain.ErrBadRequest)
	router := verificationRouter(svc, liveSessions("s1"))

	rec := postJSON(t, router, "/verification", map[string]string{}, tok)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
