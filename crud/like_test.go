package crud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"devconnect/domain"
	"devconnect/errs"
)

func TestLikeToggle(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")
	post := testPost(t, db, alice, "hello world")

	// First toggle creates the like.
	status, err := ls.Toggle(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, 1, status.Count)
	require.Len(t, status.Users, 1)
	assert.Equal(t, "bob", status.Users[0].Username)

	// Second toggle removes it again.
	status, err = ls.Toggle(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, 0, status.Count)
	assert.Empty(t, status.Users)

	assert.EqualValues(t, 0, count(t, db, domain.Like{}))
}

func TestLikeToggle_TwoUsers(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")
	post := testPost(t, db, alice, "hello world")

	_, err := ls.Toggle(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	status, err := ls.Toggle(ctx, bob.ID, post.ID)
	require.NoError(t, err)

	// Bob's toggle must not touch Alice's like.
	assert.True(t, status.Liked)
	assert.Equal(t, 2, status.Count)
	usernames := []string{status.Users[0].Username, status.Users[1].Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)
}

func TestLikeToggle_LostCreateRace(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	post := testPost(t, db, alice, "hello world")

	// Sneak a conflicting row in between the existence check and the
	// insert, the way a concurrent toggle would. The insert then fails
	// with a duplicate key, and the toggle must degrade to a deactivate
	// with the transaction still usable for the recount.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("race", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*domain.Like); !ok || raced {
			return
		}
		raced = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).
			Exec("INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)",
				alice.ID, post.ID, time.Now()).Error)
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("race")

	status, err := ls.Toggle(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.False(t, status.Liked)
	assert.Equal(t, 0, status.Count)
	assert.EqualValues(t, 0, count(t, db, domain.Like{}))
}

func TestLikeToggle_PostNotFound(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)

	alice := testUser(t, db, "alice")

	_, err := ls.Toggle(context.Background(), alice.ID, 12345)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	assert.Equal(t, "Post not found", errs.ErrorMessage(err))
}

func TestLikeUniqueness(t *testing.T) {
	db := testDB(t)

	alice := testUser(t, db, "alice")
	post := testPost(t, db, alice, "hello world")

	require.NoError(t, db.Create(&domain.Like{UserID: alice.ID, PostID: post.ID}).Error)
	err := db.Create(&domain.Like{UserID: alice.ID, PostID: post.ID}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestLikeStatus(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")
	post := testPost(t, db, alice, "hello world")

	status, err := ls.Status(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Count)
	assert.Empty(t, status.Users)

	_, err = ls.Toggle(ctx, bob.ID, post.ID)
	require.NoError(t, err)

	status, err = ls.Status(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Count)
	require.Len(t, status.Users, 1)
	assert.Equal(t, "bob", status.Users[0].Username)
}

func TestLikedPostIDs(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")
	first := testPost(t, db, alice, "first")
	second := testPost(t, db, alice, "second")
	testPost(t, db, alice, "third")

	_, err := ls.Toggle(ctx, bob.ID, first.ID)
	require.NoError(t, err)
	_, err = ls.Toggle(ctx, bob.ID, second.ID)
	require.NoError(t, err)

	liked, err := ls.LikedPostIDs(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, liked, 2)
	assert.True(t, liked[first.ID])
	assert.True(t, liked[second.ID])
}
