package application

import (
	"time"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
)

// PublicUser is the account view returned by register and login.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResult pairs the public user with a freshly issued token.
type AuthResult struct {
	User      PublicUser `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

type AuthorView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

type PostView struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	ImageURL   *string     `json:"imageUrl"`
	LikesCount int         `json:"likesCount"`
	CreatedAt  time.Time   `json:"createdAt"`
	Author     *AuthorView `json:"author,omitempty"`
	Liked      bool        `json:"liked"`
}

type ProfileView struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	FullName       string     `json:"fullName"`
	Bio            string     `json:"bio"`
	ProfilePicture string     `json:"profilePicture"`
	CreatedAt      time.Time  `json:"createdAt"`
	Posts          []PostView `json:"posts"`
}

// UserView is the full own-account view returned after a profile update.
type UserView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

type LikeView struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

func NewPublicUser(u *entity.User) PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

func NewAuthorView(u *entity.User) *AuthorView {
	if u == nil {
		return nil
	}
	return &AuthorView{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

func NewPostView(p *entity.Post) PostView {
	return PostView{
		ID:         p.ID,
		Content:    p.Content,
		ImageURL:   p.ImageURL,
		LikesCount: p.LikesCount,
		CreatedAt:  p.CreatedAt,
		Author:     NewAuthorView(p.Author),
		Liked:      p.Liked,
	}
}

func NewPostViews(posts []*entity.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostView(p))
	}
	return out
}

func NewUserView(u *entity.User) UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}
}

// Profile is a user together with their posts, annotated for one viewer.
type Profile struct {
	User  *entity.User
	Posts []*entity.Post
}

// View renders the profile; email is included only for the owner.
func (p *Profile) View(includeEmail bool) ProfileView {
	v := ProfileView{
		ID:             p.User.ID,
		Username:       p.User.Username,
		FullName:       p.User.FullName,
		Bio:            p.User.Bio,
		ProfilePicture: p.User.ProfilePicture,
		CreatedAt:      p.User.CreatedAt,
		Posts:          NewPostViews(p.Posts),
	}
	if includeEmail {
		v.Email = p.User.Email
	}
	return v
}
