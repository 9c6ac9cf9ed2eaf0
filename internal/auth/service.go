package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Service wraps authentication business rules. Login succeeds only for
// approved accounts; pending and rejected accounts authenticate their
// credentials but are refused with ErrAccountNotApproved so the caller can
// tell the states apart.
type Service struct {
	users identity.Repository
}

// NewService constructs a Service.
func NewService(users identity.Repository) *Service {
	return &Service{users: users}
}

// Login validates email/password credentials and the account status. The
// returned record is sanitized.
func (s *Service) Login(ctx context.Context, email, password string) (identity.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Burn a hash comparison so unknown emails cost the same
			// as wrong passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return identity.User{}, shared.ErrInvalidCredentials
		}
		return identity.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return identity.User{}, shared.ErrInvalidCredentials
	}
	if user.Status != shared.StatusApproved {
		return identity.User{}, shared.ErrAccountNotApproved
	}
	return user.Sanitized(), nil
}

// Get resolves the sanitized record behind a session user id.
func (s *Service) Get(ctx context.Context, id string) (identity.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return identity.User{}, err
	}
	return user.Sanitized(), nil
}

var dummyHash = mustHash("vendorkut-timing-pad")

func mustHash(s string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}
