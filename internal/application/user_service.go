package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	repo "github.com/oksasatya/go-social-network/internal/domain/repository"
	"github.com/oksasatya/go-social-network/pkg/helpers"
)

var ErrAvatarsDisabled = errors.New("avatar storage not configured")

type UserService struct {
	Users   repo.UserRepository
	Posts   repo.PostRepository
	Index   repo.UserSearchIndex // optional
	Avatars AvatarStore          // optional
	Logger  *logrus.Logger
}

func NewUserService(users repo.UserRepository, posts repo.PostRepository, index repo.UserSearchIndex, avatars AvatarStore, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &UserService{Users: users, Posts: posts, Index: index, Avatars: avatars, Logger: logger}
}

func (s *UserService) getUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewInternalError("get user", err)
	}
	return u, nil
}

// GetProfile returns targetID's profile with posts newest first, each marked
// liked when viewerID is in its like-set.
func (s *UserService) GetProfile(ctx context.Context, targetID, viewerID string) (*Profile, error) {
	u, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	posts, err := s.Posts.ListByAuthor(ctx, u.ID, viewerID)
	if err != nil {
		return nil, NewInternalError("list posts", err)
	}
	return &Profile{User: u, Posts: posts}, nil
}

// UpdateProfile applies only the fields present in patch.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return u, nil
	}
	patch.Apply(u)
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewInternalError("update profile", err)
	}
	s.indexUser(ctx, u)
	return u, nil
}

// UploadAvatar stores an image and makes it the user's profile picture.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, NewInternalError("upload avatar", ErrAvatarsDisabled)
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, NewInternalError("upload avatar", err)
	}
	return s.UpdateProfile(ctx, userID, entity.ProfilePatch{ProfilePicture: &url})
}

// Search looks users up by username or full name. It returns an empty list when search is disabled.
func (s *UserService) Search(ctx context.Context, query string, size int) ([]*entity.User, error) {
	if s.Index == nil || strings.TrimSpace(query) == "" {
		return []*entity.User{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	users, err := s.Index.Search(ctx, query, size)
	if err != nil {
		return nil, NewInternalError("search users", err)
	}
	return users, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index failed")
	}
}
