package entity

import (
	"time"
)

// User is the aggregate root for the account/profile domain.
// Passwords are stored as bcrypt hashes in PasswordHash and never leave the service layer.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"full_name"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfilePatch carries a partial profile update. A nil field is left unchanged;
// a pointer to "" clears the field.
type ProfilePatch struct {
	FullName       *string
	Bio            *string
	ProfilePicture *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.FullName == nil && p.Bio == nil && p.ProfilePicture == nil
}

// Apply copies the present fields of p onto u.
func (p ProfilePatch) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
}
