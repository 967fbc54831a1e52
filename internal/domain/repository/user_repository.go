package repository

import (
	"context"
	"errors"

	"github.com/subtle-marketing/account-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user row matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned by Create when the email column's
	// unique constraint rejects the insert. The constraint is the
	// authoritative guard; application-level lookups are a fast path only.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository is the persistence boundary for user credentials.
// Implementations receive already-normalized (lowercased, trimmed) emails.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePasswordHash(ctx context.Context, email, passwordHash string) error
}
