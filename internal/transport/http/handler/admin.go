package handler

import (
	"net/http"

	"github.com/go-idverify-api/internal/application/account"
)

// AdminHandler serves the administrative record listing.
type AdminHandler struct {
	svc account.Service
}

func NewAdminHandler(svc account.Service) *AdminHandler { return &AdminHandler{svc: svc} }

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	safe := make([]*SafeUser, len(users))
	for i := range users {
		safe[i] = toSafeUser(&users[i])
	}
	writeJSON(w, http.StatusOK, UsersEnvelope{Total: len(safe), Data: safe})
}
