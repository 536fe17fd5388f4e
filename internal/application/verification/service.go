package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-idverify-api/internal/domain"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFullName     = "full_name"
	fieldPhoneNumber  = "phone_number"
	fieldSSN          = "ssn"
	fieldBankName     = "bank_name"
	fieldCardNumber   = "card_number"
	fieldExpiryDate   = "expiry_date"
	fieldCVV          = "cvv"
	fieldPhotoIDFront = "photo_id_front_url"
	fieldPhotoIDBack  = "photo_id_back_url"
	fieldSSNCard      = "ssn_card_url"
)

type Service interface {
	Submit(ctx context.Context, email string, fields domain.VerificationFields) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, email string, updates map[string]interface{}) error
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
}

// Notifier delivers the best-effort operations notice when a record becomes
// verified. Implementations must be safe to call with empty destinations.
type Notifier interface {
	VerifiedNotice(ctx context.Context, u *domain.User)
}

type service struct {
	repo     userStore
	objects  objectStore
	notifier Notifier
}

func NewService(repo userStore, objects objectStore, notifier Notifier) Service {
	return &service{repo: repo, objects: objects, notifier: notifier}
}

// Submit merges the supplied fields onto the caller's record. Only non-empty
// values are written: an omitted or empty field never clears a previously
// stored value. Document images are uploaded first; an upload failure is
// logged and leaves that one document unset without failing the request.
// Verified-ness is never written — it stays derived from the merged SSN.
func (s *service) Submit(ctx context.Context, email string, fields domain.VerificationFields) (*domain.User, error) {
	if fields.Empty() {
		return nil, fmt.Errorf("no verification data provided: %w", domain.ErrBadRequest)
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	put := func(attr, value string) {
		if value != "" {
			updates[attr] = value
		}
	}
	put(fieldFullName, fields.FullName)
	put(fieldPhoneNumber, fields.PhoneNumber)
	put(fieldSSN, fields.SSN)
	put(fieldBankName, fields.BankName)
	put(fieldCardNumber, fields.CardNumber)
	put(fieldExpiryDate, fields.ExpiryDate)
	put(fieldCVV, fields.CVV)

	put(fieldPhotoIDFront, s.uploadDocument(ctx, u, "photo_id_front", fields.PhotoIDFront))
	put(fieldPhotoIDBack, s.uploadDocument(ctx, u, "photo_id_back", fields.PhotoIDBack))
	put(fieldSSNCard, s.uploadDocument(ctx, u, "ssn_card", fields.SSNCard))

	if len(updates) == 0 {
		// Everything submitted was empty or failed to upload.
		return u, nil
	}

	wasVerified := u.Verified()
	if err := s.repo.Update(ctx, email, updates); err != nil {
		return nil, err
	}
	u, err = s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !wasVerified && u.Verified() && s.notifier != nil {
		s.notifier.VerifiedNotice(ctx, u)
	}
	return u, nil
}

// uploadDocument stores a base64 image under a deterministic per-record key,
// so replacing a document overwrites the previous object. Returns the object
// key, or "" when there was nothing to upload or the image host is down.
func (s *service) uploadDocument(ctx context.Context, u *domain.User, name, b64 string) string {
	if b64 == "" {
		return ""
	}
	key := fmt.Sprintf("documents/%s/%s.png", u.UserID, name)
	if _, err := s.objects.UploadBase64(ctx, key, b64); err != nil {
		slog.Warn("document upload failed, leaving field unset",
			"email", u.Email, "document", name, "err", err)
		return ""
	}
	return key
}
