package repository

import (
	"context"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
)

// UserSearchIndex keeps a searchable copy of public user fields.
type UserSearchIndex interface {
	Index(ctx context.Context, u *entity.User) error
	// Search returns users with public fields only (no email, no hash).
	Search(ctx context.Context, query string, size int) ([]*entity.User, error)
}
