package crud

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devconnect/domain"
)

// testDB opens a fresh in-memory sqlite database for a single test, with
// foreign key enforcement on so cascade behavior matches postgres. The
// database is named after the test so parallel tests never share state.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		domain.User{},
		domain.Profile{},
		domain.Post{},
		domain.Like{},
		domain.Comment{},
		domain.Follow{},
	))
	return db
}

// testUser creates a user through the UserService, so the password gets
// hashed and the profile gets created just like in production.
func testUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	us := NewUserService(db, "test-pepper", "test-hmac-key")
	user := domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	require.NoError(t, us.Create(context.Background(), &user))
	return &user
}

// testPost creates a post authored by the given user.
func testPost(t *testing.T, db *gorm.DB, user *domain.User, content string) *domain.Post {
	t.Helper()
	ps := NewPostService(db)
	post := domain.Post{
		UserID:  user.ID,
		Content: content,
	}
	require.NoError(t, ps.Create(context.Background(), &post))
	return &post
}

// count returns the number of rows of the given model.
func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
