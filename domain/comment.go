package domain

import (
	"context"
	"time"
)

// Comment represents a remark a User leaves on a Post. Comments are append
// only, there is no edit operation on them.
type Comment struct {
	ID      int    `json:"id"`
	UserID  int    `json:"-" gorm:"notNull;index"`
	User    User   `json:"author"`
	PostID  int    `json:"-" gorm:"notNull;index"`
	Post    Post   `json:"post"`
	Content string `json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment
// model. ByPostID returns comments in creation order, oldest first.
type CommentService interface {
	ByPostID(ctx context.Context, postID int) ([]Comment, error)
	Create(ctx context.Context, comment *Comment) error
}
