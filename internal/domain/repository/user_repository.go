package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail and ErrDuplicateUsername report a unique constraint hit on insert.
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// UpdateProfile writes full name, bio and profile picture only.
	UpdateProfile(ctx context.Context, u *entity.User) error
	Count(ctx context.Context) (int, error)
}
