package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-idverify-api/internal/application/verification"
	"github.com/go-idverify-api/internal/domain"
	"github.com/go-idverify-api/internal/transport/http/middleware"
)

// VerificationHandler handles identity-verification submissions.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var fields domain.VerificationFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Submit(r.Context(), claims.Email, fields)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{
		User:                 toSafeUser(u),
		VerificationRequired: !u.Verified(),
	})
}
