package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	"github.com/oksasatya/go-social-network/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	p.LikesCount = 0
	p.Liked = false
	return r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, content, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.AuthorID, p.Content, p.ImageURL).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// $1 is the viewer id; an empty viewer matches no like row.
const feedQuery = `
	SELECT p.id, p.author_id, p.content, p.image_url, p.likes_count, p.created_at, p.updated_at,
	       u.username, u.profile_picture,
	       EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id::text = $1) AS liked
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func (r *PostRepository) ListAll(ctx context.Context, viewerID string) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, feedQuery+` ORDER BY p.created_at DESC, p.id DESC`, viewerID)
	if err != nil {
		return nil, err
	}
	return collectFeed(rows, true)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*entity.Post, error) {
	if !isUUID(authorID) {
		return []*entity.Post{}, nil
	}
	rows, err := r.pool.Query(ctx, feedQuery+` WHERE p.author_id = $2 ORDER BY p.created_at DESC, p.id DESC`, viewerID, authorID)
	if err != nil {
		return nil, err
	}
	return collectFeed(rows, false)
}

func collectFeed(rows pgx.Rows, withAuthor bool) ([]*entity.Post, error) {
	defer rows.Close()
	out := make([]*entity.Post, 0)
	for rows.Next() {
		p := &entity.Post{}
		var username, picture string
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.ImageURL, &p.LikesCount, &p.CreatedAt,
			&p.UpdatedAt, &username, &picture, &p.Liked); err != nil {
			return nil, err
		}
		if withAuthor {
			p.Author = &entity.User{ID: p.AuthorID, Username: username, ProfilePicture: picture}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	p := &entity.Post{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, author_id, content, image_url, likes_count, created_at, updated_at
		FROM posts
		WHERE id = $1
	`, id).Scan(&p.ID, &p.AuthorID, &p.Content, &p.ImageURL, &p.LikesCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ToggleLike runs in one transaction holding the post row lock, so concurrent
// toggles on the same post are serialized and the count is rebuilt from the set.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (entity.LikeResult, error) {
	if !isUUID(postID) || !isUUID(userID) {
		return entity.LikeResult{}, repository.ErrNotFound
	}
	var res entity.LikeResult
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrNotFound
			}
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return err
		}
		res.Liked = tag.RowsAffected() == 0
		if res.Liked {
			if _, err := tx.Exec(ctx, `
				INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
				ON CONFLICT (post_id, user_id) DO NOTHING
			`, postID, userID); err != nil {
				return err
			}
		}

		return tx.QueryRow(ctx, `
			UPDATE posts
			SET likes_count = (SELECT count(*) FROM post_likes WHERE post_id = $1), updated_at = now()
			WHERE id = $1
			RETURNING likes_count
		`, postID).Scan(&res.LikesCount)
	})
	if err != nil {
		return entity.LikeResult{}, err
	}
	return res, nil
}

func (r *PostRepository) ReconcileLikeCounts(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts p
		SET likes_count = c.n, updated_at = now()
		FROM (
			SELECT p2.id, count(l.user_id)::int AS n
			FROM posts p2
			LEFT JOIN post_likes l ON l.post_id = p2.id
			GROUP BY p2.id
		) c
		WHERE p.id = c.id AND p.likes_count <> c.n
	`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
