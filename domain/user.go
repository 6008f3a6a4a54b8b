package domain

import (
	"context"
	"time"
)

// User represents a registered account. The Password and Remember fields only
// ever hold data in memory while a request is being processed; what ends up
// in the database are their hashed counterparts.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username" gorm:"uniqueIndex;notNull"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`

	Profile   *Profile  `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Posts     []Post    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Likes     []Like    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Comments  []Comment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Followers []Follow  `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	Following []Follow  `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the optional public data attached to a User.
// There is at most one Profile per User and it is created together with it.
type Profile struct {
	ID     int     `json:"id"`
	UserID int     `json:"user_id" gorm:"uniqueIndex;notNull"`
	Bio    *string `json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(ctx context.Context, id int) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	ByRemember(ctx context.Context, token string) (*User, error)
	All(ctx context.Context) ([]User, error)
	AllExcept(ctx context.Context, id int) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int) error
	Authenticate(ctx context.Context, username, password string) (*User, error)
}
