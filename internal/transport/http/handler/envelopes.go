package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-idverify-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Token                string    `json:"token,omitempty"`
	User                 *SafeUser `json:"user,omitempty"`
	VerificationRequired bool      `json:"verification_required"`
	Message              string    `json:"message,omitempty"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	User                 *SafeUser `json:"user,omitempty"`
	VerificationRequired bool      `json:"verification_required"`
}

// UsersEnvelope wraps the administrative listing.
type UsersEnvelope struct {
	Total int         `json:"total"`
	Data  []*SafeUser `json:"data"`
}

// SafeUser is the outward projection of a record: everything except the
// credential hash.
type SafeUser struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	SSN          string `json:"ssn,omitempty"`
	BankName     string `json:"bank_name,omitempty"`
	CardNumber   string `json:"card_number,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	CVV          string `json:"cvv,omitempty"`
	PhotoIDFront string `json:"photo_id_front_url,omitempty"`
	PhotoIDBack  string `json:"photo_id_back_url,omitempty"`
	SSNCard      string `json:"ssn_card_url,omitempty"`
	Verified     bool   `json:"verified"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{
		Email:        u.Email,
		FullName:     u.FullName,
		PhoneNumber:  u.PhoneNumber,
		SSN:          u.SSN,
		BankName:     u.BankName,
		CardNumber:   u.CardNumber,
		ExpiryDate:   u.ExpiryDate,
		CVV:          u.CVV,
		PhotoIDFront: u.PhotoIDFront,
		PhotoIDBack:  u.PhotoIDBack,
		SSNCard:      u.SSNCard,
		Verified:     u.Verified(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// statusFor maps domain sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
