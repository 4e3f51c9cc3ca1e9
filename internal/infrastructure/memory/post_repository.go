package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	repo "github.com/oksasatya/go-social-network/internal/domain/repository"
)

type postRecord struct {
	post  entity.Post
	seq   int64
	likes map[string]struct{}
}

// PostRepository keeps posts and like-sets in memory. A single mutex
// serializes toggles, so the stored count always equals the set size.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]*postRecord
	seq   int64
	users *UserRepository
	now   func() time.Time
}

// NewPostRepository needs the user store to join authors into listings.
func NewPostRepository(users *UserRepository) *PostRepository {
	return &PostRepository{
		posts: make(map[string]*postRecord),
		users: users,
		now:   time.Now,
	}
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.LikesCount = 0
	p.Liked = false

	r.seq++
	rec := &postRecord{post: *p, seq: r.seq, likes: make(map[string]struct{})}
	rec.post.Author = nil
	r.posts[p.ID] = rec
	return nil
}

func (r *PostRepository) ListAll(ctx context.Context, viewerID string) ([]*entity.Post, error) {
	return r.list(ctx, viewerID, func(*entity.Post) bool { return true }, true), nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*entity.Post, error) {
	return r.list(ctx, viewerID, func(p *entity.Post) bool { return p.AuthorID == authorID }, false), nil
}

func (r *PostRepository) list(ctx context.Context, viewerID string, keep func(*entity.Post) bool, withAuthor bool) []*entity.Post {
	r.mu.RLock()
	recs := make([]*postRecord, 0, len(r.posts))
	for _, rec := range r.posts {
		if keep(&rec.post) {
			recs = append(recs, rec)
		}
	}
	// insertion order breaks ties between equal timestamps
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].post.CreatedAt.Equal(recs[j].post.CreatedAt) {
			return recs[i].seq > recs[j].seq
		}
		return recs[i].post.CreatedAt.After(recs[j].post.CreatedAt)
	})
	out := make([]*entity.Post, 0, len(recs))
	for _, rec := range recs {
		p := rec.post
		_, p.Liked = rec.likes[viewerID]
		out = append(out, &p)
	}
	r.mu.RUnlock()

	if withAuthor && r.users != nil {
		for _, p := range out {
			if u, err := r.users.GetByID(ctx, p.AuthorID); err == nil {
				p.Author = u
			}
		}
	}
	return out
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.posts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	p := rec.post
	return &p, nil
}

func (r *PostRepository) ToggleLike(_ context.Context, postID, userID string) (entity.LikeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.posts[postID]
	if !ok {
		return entity.LikeResult{}, repo.ErrNotFound
	}
	_, liked := rec.likes[userID]
	if liked {
		delete(rec.likes, userID)
	} else {
		rec.likes[userID] = struct{}{}
	}
	rec.post.LikesCount = len(rec.likes)
	rec.post.UpdatedAt = r.now().UTC()
	return entity.LikeResult{Liked: !liked, LikesCount: rec.post.LikesCount}, nil
}

func (r *PostRepository) ReconcileLikeCounts(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fixed := 0
	for _, rec := range r.posts {
		if rec.post.LikesCount != len(rec.likes) {
			rec.post.LikesCount = len(rec.likes)
			fixed++
		}
	}
	return fixed, nil
}
