package repository

import (
	"context"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
)

// PostRepository persists posts and their like-sets.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	// ListAll returns every post joined with its author, newest first,
	// with Liked set for viewerID.
	ListAll(ctx context.Context, viewerID string) ([]*entity.Post, error)
	// ListByAuthor is ListAll restricted to one author. Author is not populated.
	ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*entity.Post, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// ToggleLike atomically flips membership of userID in the like-set of postID
	// and returns the state and exact set size after the flip.
	ToggleLike(ctx context.Context, postID, userID string) (entity.LikeResult, error)
	// ReconcileLikeCounts rewrites every stored count from the like-set and
	// returns the number of posts that had drifted.
	ReconcileLikeCounts(ctx context.Context) (int, error)
}
