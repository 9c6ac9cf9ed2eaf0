package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vendorkut/vendorkut/internal/document"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Service handles identity registration and lookups.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries a registration submission.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
	Document        string
	DocumentKind    document.Kind
	Seller          bool
}

// Register validates the submission and creates a pending identity record.
// Validation happens strictly before any store mutation, so a failure never
// leaves partial state behind. The returned record is sanitized.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if in.Password != in.PasswordConfirm {
		return User{}, fmt.Errorf("%w: password confirmation does not match", shared.ErrValidation)
	}
	if in.DocumentKind != document.KindCPF && in.DocumentKind != document.KindCNPJ {
		return User{}, fmt.Errorf("%w: unknown document kind %q", shared.ErrValidation, in.DocumentKind)
	}
	if !document.Validate(in.DocumentKind, in.Document) {
		return User{}, fmt.Errorf("%w: invalid %s", shared.ErrValidation, in.DocumentKind)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("identity: hash password: %w", err)
	}

	role := RoleStandard
	if in.Seller {
		role = RoleSeller
	}

	user := User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: string(hash),
		Document:     document.Format(in.DocumentKind, in.Document),
		DocumentKind: in.DocumentKind,
		Role:         role,
		Permissions:  DefaultPermissions(role),
		Status:       shared.StatusPending,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return User{}, err
	}
	return created.Sanitized(), nil
}

// Get returns the sanitized record for id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	return user.Sanitized(), nil
}

// List returns sanitized records matching the filter in insertion order.
func (s *Service) List(ctx context.Context, filter Filter) ([]User, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// EnsureAdmin creates an approved administrator account when none exists
// under the given email. Used at startup so the approval workflow has an
// operator from the first boot.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, nil
	}
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil {
		return existing.Sanitized(), nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("identity: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, User{
		FirstName:    "Platform",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		Permissions:  shared.AdminScopes(),
		Status:       shared.StatusApproved,
	})
	if err != nil {
		return User{}, err
	}
	return created.Sanitized(), nil
}
