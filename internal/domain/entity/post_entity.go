package entity

import "time"

// Post is authored by exactly one user and liked by a set of users.
// LikesCount always mirrors the size of the like-set.
type Post struct {
	ID         string
	AuthorID   string
	Content    string
	ImageURL   *string
	LikesCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Author is populated by queries that join users.
	Author *User
	// Liked is the viewer-relative annotation filled by feed and profile queries.
	Liked bool
}

// LikeResult is the state of a (post, user) pair after a toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int
}
