package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-idverify-api/internal/application/account"
	"github.com/go-idverify-api/internal/pkg/validate"
	"github.com/go-idverify-api/internal/transport/http/middleware"
)

// SessionHandler handles login/logout and the current-session view.
type SessionHandler struct {
	svc account.Service
}

func NewSessionHandler(svc account.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	msg := "login successful"
	if result.VerificationRequired {
		msg = "login successful, please complete verification"
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Token:                result.Token,
		User:                 toSafeUser(result.User),
		VerificationRequired: result.VerificationRequired,
		Message:              msg,
	})
}

func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, needsVerification, err := h.svc.Current(r.Context(), claims.SessionID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{
		User:                 toSafeUser(u),
		VerificationRequired: needsVerification,
	})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Logout(r.Context(), claims.SessionID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
