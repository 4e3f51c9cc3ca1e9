package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	repo "github.com/oksasatya/go-social-network/internal/domain/repository"
	"github.com/oksasatya/go-social-network/pkg/helpers"
	"github.com/oksasatya/go-social-network/pkg/mailer"
	"github.com/oksasatya/go-social-network/pkg/mailer/templates"
	"github.com/oksasatya/go-social-network/pkg/response"
)

type AuthService struct {
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Index   repo.UserSearchIndex // optional
	Events  EventPublisher       // optional
	Logger  *logrus.Logger
	AppName string
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, index repo.UserSearchIndex, events EventPublisher, logger *logrus.Logger, appName string) *AuthService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &AuthService{Users: users, JWT: jwt, Index: index, Events: events, Logger: logger, AppName: appName}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Username bounds, counted in characters after trimming.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 30
)

// check re-applies the account rules to the normalised input.
func (in RegisterInput) check() []response.FieldError {
	var out []response.FieldError
	if n := utf8.RuneCountInString(in.Username); n < MinUsernameLen || n > MaxUsernameLen {
		out = append(out, response.FieldError{
			Field:   "username",
			Message: fmt.Sprintf("must be between %d and %d characters long", MinUsernameLen, MaxUsernameLen),
		})
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		out = append(out, response.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d bytes long", helpers.MaxPasswordBytes),
		})
	}
	return out
}

// Register creates an account and issues its first token.
// Email conflicts win over username conflicts when both exist.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if details := in.check(); len(details) > 0 {
		return nil, NewValidationError(MsgValidationFailed, details...)
	}

	existingEmail, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, NewInternalError("lookup email", err)
	}
	existingUsername, err := s.Users.GetByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, NewInternalError("lookup username", err)
	}
	if existingEmail != nil {
		return nil, NewConflictError(MsgEmailTaken)
	}
	if existingUsername != nil {
		return nil, NewConflictError(MsgUsernameTaken)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, NewInternalError("hash password", err)
	}
	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, NewConflictError(MsgEmailTaken)
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, NewConflictError(MsgUsernameTaken)
		}
		return nil, NewInternalError("create user", err)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	s.indexUser(ctx, u)
	s.publishWelcome(ctx, u)
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID})
	return res, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, NewInternalError("lookup email", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.Issue(helpers.Identity{UserID: u.ID, Email: u.Email, Username: u.Username})
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, NewInternalError("issue token", err)
	}
	return &AuthResult{User: NewPublicUser(u), Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index failed")
	}
}

func (s *AuthService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Events == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data:     templates.WelcomeData(s.AppName, u.Username, u.FullName),
	}
	if err := s.Events.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email")
	}
}
