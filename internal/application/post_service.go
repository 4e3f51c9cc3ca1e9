package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	repo "github.com/oksasatya/go-social-network/internal/domain/repository"
	"github.com/oksasatya/go-social-network/pkg/helpers"
	"github.com/oksasatya/go-social-network/pkg/mailer"
	"github.com/oksasatya/go-social-network/pkg/mailer/templates"
	"github.com/oksasatya/go-social-network/pkg/response"
)

type PostService struct {
	Posts   repo.PostRepository
	Users   repo.UserRepository
	Events  EventPublisher // optional
	Logger  *logrus.Logger
	AppName string
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, events EventPublisher, logger *logrus.Logger, appName string) *PostService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &PostService{Posts: posts, Users: users, Events: events, Logger: logger, AppName: appName}
}

type CreatePostInput struct {
	Content  string
	ImageURL *string
}

// List returns the whole feed, newest first, annotated for viewerID.
func (s *PostService) List(ctx context.Context, viewerID string) ([]*entity.Post, error) {
	posts, err := s.Posts.ListAll(ctx, viewerID)
	if err != nil {
		return nil, NewInternalError("list posts", err)
	}
	return posts, nil
}

// Create stores a post with an empty like-set and returns it with its author.
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*entity.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, NewValidationError(MsgContentRequired, response.FieldError{Field: "content", Message: "is required"})
	}
	author, err := s.lookupUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}

	p := &entity.Post{AuthorID: author.ID, Content: in.Content, ImageURL: in.ImageURL}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, NewInternalError("create post", err)
	}
	p.Author = author
	return p, nil
}

// ToggleLike flips userID's membership in the post's like-set and reports the
// state after the flip.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (entity.LikeResult, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entity.LikeResult{}, ErrPostNotFound
		}
		return entity.LikeResult{}, NewInternalError("get post", err)
	}
	liker, err := s.lookupUser(ctx, userID)
	if err != nil {
		return entity.LikeResult{}, err
	}

	res, err := s.Posts.ToggleLike(ctx, post.ID, liker.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entity.LikeResult{}, ErrPostNotFound
		}
		return entity.LikeResult{}, NewInternalError("toggle like", err)
	}

	if res.Liked && post.AuthorID != liker.ID {
		s.notifyAuthor(ctx, post, liker, res.LikesCount)
	}
	return res, nil
}

func (s *PostService) lookupUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewInternalError("get user", err)
	}
	return u, nil
}

func (s *PostService) notifyAuthor(ctx context.Context, post *entity.Post, liker *entity.User, likes int) {
	if s.Events == nil {
		return
	}
	author, err := s.Users.GetByID(ctx, post.AuthorID)
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", post.ID).Warn("like notification skipped")
		return
	}
	name := author.FullName
	if name == "" {
		name = author.Username
	}
	job := mailer.EmailJob{
		To:       author.Email,
		Template: templates.PostLiked,
		Data:     templates.PostLikedData(s.AppName, name, liker.Username, templates.Excerpt(post.Content, 80), likes),
	}
	if err := s.Events.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("post_id", post.ID).Warn("failed to publish like notification")
	}
}
