package domain

import (
	"context"
	"time"
)

// Follow represents a self-referential many-to-many relationship between two
// users. The FollowerID is the user that follows, the FollowingID the user
// being followed. The unique index on the pair prevents duplicate follows.
type Follow struct {
	ID          int  `json:"id"`
	FollowerID  int  `json:"-" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Follower    User `json:"follower"`
	FollowingID int  `json:"-" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Following   User `json:"following"`

	CreatedAt time.Time `json:"created_at"`
}

// FollowStatus is the result of a follow toggle or lookup: the live follower
// count and the users currently following the target.
type FollowStatus struct {
	Following bool
	Count     int
	Followers []User
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Toggle(ctx context.Context, followerID, followingID int) (*FollowStatus, error)
	Status(ctx context.Context, userID int) (*FollowStatus, error)
}
