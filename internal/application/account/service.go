package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-idverify-api/internal/domain"
	"github.com/go-idverify-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

const presignTTL = 15 * time.Minute

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult reports the state the login landed the caller in. A missing
// SSN means the client must route the user to the verification flow before
// anything else.
type LoginResult struct {
	Token                string
	User                 *domain.User
	VerificationRequired bool
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Current(ctx context.Context, sessionID string) (*domain.User, bool, error)
	ValidateSession(ctx context.Context, sessionID string) error
	Logout(ctx context.Context, sessionID string) error
	ListAll(ctx context.Context) ([]domain.User, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

type tokenSigner interface {
	Sign(email, sessionID string) (string, error)
	Expiry() time.Duration
}

type docPresigner interface {
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	repo        userStore
	sessionRepo sessionStore
	signer      tokenSigner
	presigner   docPresigner
}

func NewService(repo userStore, sessionRepo sessionStore, signer tokenSigner, presigner docPresigner) Service {
	return &service{repo: repo, sessionRepo: sessionRepo, signer: signer, presigner: presigner}
}

// Login authenticates email/password. The first login attempt for an unseen
// email registers it: the supplied password becomes the permanent credential
// and the attempt succeeds trivially. For an existing record the password
// must match the stored bcrypt hash exactly; a mismatch leaves the record
// untouched and creates no session.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
		}
	case errors.Is(err, domain.ErrNotFound):
		u, err = s.register(ctx, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	sess := &domain.Session{
		SessionID: id.New(),
		Email:     u.Email,
		Enable:    true,
		ExpiresAt: time.Now().Add(s.signer.Expiry()).Unix(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.signer.Sign(u.Email, sess.SessionID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u, VerificationRequired: !u.Verified()}, nil
}

func (s *service) register(ctx context.Context, req LoginRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		Email:         req.Email,
		UserID:        id.New(),
		PasswordHash:  string(hash),
		SchemaVersion: domain.SchemaVersionCurrent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.repo.Create(ctx, u)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent first login for the same email. The
		// record that won holds the credential now; authenticate against it.
		u, err = s.repo.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
		}
		return u, nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("registered new user", "email", u.Email)
	return u, nil
}

// liveSession fetches the session and rejects it when it is disabled or
// expired. A missing session maps to unauthorized; a store failure keeps its
// own error so the caller can tell an outage from a revocation.
func (s *service) liveSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("session not found: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !sess.Enable || sess.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	return sess, nil
}

// ValidateSession reports whether the server-side session is still live.
// Every authenticated request goes through this, so a logged-out token stops
// working immediately rather than at its own expiry.
func (s *service) ValidateSession(ctx context.Context, sessionID string) error {
	_, err := s.liveSession(ctx, sessionID)
	return err
}

// Current resolves the session to its record and recomputes the derived
// verification state. The check runs on every call, not just at login, so a
// record verified mid-session is picked up on the next read.
func (s *service) Current(ctx context.Context, sessionID string) (*domain.User, bool, error) {
	sess, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	u, err := s.repo.GetByEmail(ctx, sess.Email)
	if err != nil {
		return nil, false, err
	}
	return u, !u.Verified(), nil
}

// Logout disables the server-side session; the record is untouched.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Disable(ctx, sessionID)
}

// ListAll returns every record for the administrative view, with stored
// document keys resolved to time-limited presigned URLs. A presign failure
// leaves the raw key in place rather than failing the listing.
func (s *service) ListAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PhotoIDFront = s.presignKey(ctx, users[i].PhotoIDFront)
		users[i].PhotoIDBack = s.presignKey(ctx, users[i].PhotoIDBack)
		users[i].SSNCard = s.presignKey(ctx, users[i].SSNCard)
	}
	return users, nil
}

func (s *service) presignKey(ctx context.Context, key string) string {
	if key == "" || s.presigner == nil {
		return key
	}
	url, err := s.presigner.PresignedURL(ctx, key, presignTTL)
	if err != nil {
		slog.Warn("could not presign document", "key", key, "err", err)
		return key
	}
	return url
}
