package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	repo "github.com/oksasatya/go-social-network/internal/domain/repository"
	"github.com/oksasatya/go-social-network/pkg/helpers"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

type demoAccount struct {
	username, email, fullName, bio, post string
}

var demoAccounts = []demoAccount{
	{"john_doe", "john@example.com", "John Doe", "Coffee first, code later.", "Just shipped my first Go service!"},
	{"jane_smith", "jane@example.com", "Jane Smith", "Photographer and hiker.", "Sunrise over the ridge this morning was unreal."},
	{"bob_wilson", "bob@example.com", "Bob Wilson", "Weekend woodworker.", "Finished the oak bookshelf, pictures soon."},
}

// Seed inserts the demo accounts with one post each. It does nothing unless
// the user store is empty and reports whether rows were written.
func Seed(ctx context.Context, users repo.UserRepository, posts repo.PostRepository, logger *logrus.Logger) (bool, error) {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	n, err := users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		logger.WithField("users", n).Info("seed skipped, users already exist")
		return false, nil
	}

	hash, err := helpers.HashPassword(DemoPassword)
	if err != nil {
		return false, err
	}
	for _, a := range demoAccounts {
		u := &entity.User{
			Username:     a.username,
			Email:        a.email,
			PasswordHash: hash,
			FullName:     a.fullName,
			Bio:          a.bio,
		}
		if err := users.Create(ctx, u); err != nil {
			return false, err
		}
		if err := posts.Create(ctx, &entity.Post{AuthorID: u.ID, Content: a.post}); err != nil {
			return false, err
		}
		logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("seeded user")
	}
	return true, nil
}
