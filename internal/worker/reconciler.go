package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/domain/repository"
)

// LikesReconciler rewrites stored like counts from the like-sets.
type LikesReconciler struct {
	Posts   repository.PostRepository
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewLikesReconciler(posts repository.PostRepository, logger *logrus.Logger) *LikesReconciler {
	return &LikesReconciler{Posts: posts, Logger: logger, Timeout: time.Minute}
}

// Run performs one pass and returns the number of repaired posts.
func (r *LikesReconciler) Run(ctx context.Context) (int, error) {
	c, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()
	fixed, err := r.Posts.ReconcileLikeCounts(c)
	if err != nil {
		r.Logger.WithError(err).Error("likes reconcile failed")
		return 0, err
	}
	if fixed > 0 {
		r.Logger.WithField("posts", fixed).Warn("likes counts repaired")
	} else {
		r.Logger.Debug("likes counts consistent")
	}
	return fixed, nil
}

// Schedule registers the reconciler on c using a standard cron spec or a
// descriptor such as "@every 1h".
func (r *LikesReconciler) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() { _, _ = r.Run(ctx) })
}
