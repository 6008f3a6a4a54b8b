package domain

import (
	"context"
	"time"
)

// Post represents a piece of content published by a User. Only the author may
// edit or delete it. Its Likes and Comments are removed with it through
// foreign key cascades, never by application code.
type Post struct {
	ID      int    `json:"id"`
	UserID  int    `json:"-" gorm:"notNull;index"`
	User    User   `json:"author"`
	Content string `json:"content"`

	// LikeCount is derived from the likes table at read time,
	// it is never stored.
	LikeCount int `json:"like_count" gorm:"-"`
	// LikedByAuth expresses whether the requesting user likes this post.
	// Only set on the page-rendering path.
	LikedByAuth bool `json:"-" gorm:"-"`

	Likes    []Like    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostService is a set of methods to manipulate and work with the Post model.
// Update and Delete take the acting user's ID because only the author is
// allowed to perform them.
type PostService interface {
	ByID(ctx context.Context, id int) (*Post, error)
	All(ctx context.Context) ([]Post, error)
	ByUserID(ctx context.Context, userID int) ([]Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, userID, postID int, content string) (*Post, error)
	Delete(ctx context.Context, userID, postID int) error
}
