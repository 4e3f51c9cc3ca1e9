package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	"github.com/oksasatya/go-social-network/internal/domain/repository"
	"github.com/oksasatya/go-social-network/pkg/helpers"
)

const userKeyPrefix = "user:"

func userKey(id string) string { return userKeyPrefix + id }

// UserRepository is a cache-aside decorator for lookups by id. Cached
// entries never carry the password hash; credential lookups by email always
// reach the underlying store.
type UserRepository struct {
	next   repository.UserRepository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(next repository.UserRepository, rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &UserRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.next.Create(ctx, u)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var cached entity.User
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, userKey(id), &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", userKey(id)).Warn("redis get failed")
	}
	if hit {
		return &cached, nil
	}

	u, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, userKey(id), u, r.ttl); err != nil {
		r.logger.WithError(err).WithField("key", userKey(id)).Warn("redis set failed")
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.next.GetByEmail(ctx, email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.next.GetByUsername(ctx, username)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	if err := r.next.UpdateProfile(ctx, u); err != nil {
		return err
	}
	if err := helpers.RedisDel(ctx, r.rdb, userKey(u.ID)); err != nil {
		r.logger.WithError(err).WithField("key", userKey(u.ID)).Warn("redis del failed")
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
