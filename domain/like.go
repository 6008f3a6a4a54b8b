package domain

import (
	"context"
	"time"
)

// Like represents a many-to-many relationship between a User and a Post.
// The unique index on (user_id, post_id) guarantees that a user likes a post
// at most once, even under concurrent toggle calls.
type Like struct {
	ID     int  `json:"id"`
	UserID int  `json:"-" gorm:"notNull;uniqueIndex:idx_likes_user_post"`
	User   User `json:"user"`
	PostID int  `json:"-" gorm:"notNull;uniqueIndex:idx_likes_user_post"`
	Post   Post `json:"post"`

	CreatedAt time.Time `json:"created_at"`
}

// LikeStatus is the result of a like toggle or lookup: the live aggregate
// count and the users currently holding a Like on the post.
type LikeStatus struct {
	Liked bool
	Count int
	Users []User
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	Toggle(ctx context.Context, userID, postID int) (*LikeStatus, error)
	Status(ctx context.Context, postID int) (*LikeStatus, error)
	LikedPostIDs(ctx context.Context, userID int) (map[int]bool, error)
}
