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

func TestFollowToggle(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")

	// First toggle creates the follow.
	status, err := fs.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, status.Following)
	assert.Equal(t, 1, status.Count)
	require.Len(t, status.Followers, 1)
	assert.Equal(t, "bob", status.Followers[0].Username)

	// Second toggle removes it again.
	status, err = fs.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, status.Following)
	assert.Equal(t, 0, status.Count)
	assert.Empty(t, status.Followers)

	assert.EqualValues(t, 0, count(t, db, domain.Follow{}))
}

func TestFollowToggle_Directional(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")

	// Bob following Alice says nothing about Alice's own followers of Bob.
	_, err := fs.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	status, err := fs.Status(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Count)

	status, err = fs.Status(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Count)
}

func TestFollowToggle_LostCreateRace(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")

	// Same shape as the like toggle race test: a conflicting row appears
	// between the existence check and the insert, and the toggle must
	// degrade to a deactivate instead of failing.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("race", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*domain.Follow); !ok || raced {
			return
		}
		raced = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).
			Exec("INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?)",
				bob.ID, alice.ID, time.Now()).Error)
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("race")

	status, err := fs.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.False(t, status.Following)
	assert.Equal(t, 0, status.Count)
	assert.EqualValues(t, 0, count(t, db, domain.Follow{}))
}

func TestFollowToggle_Self(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)

	alice := testUser(t, db, "alice")

	_, err := fs.Toggle(context.Background(), alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	assert.Equal(t, "You cannot follow yourself", errs.ErrorMessage(err))
	assert.EqualValues(t, 0, count(t, db, domain.Follow{}))
}

func TestFollowToggle_TargetNotFound(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)

	alice := testUser(t, db, "alice")

	_, err := fs.Toggle(context.Background(), alice.ID, 12345)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	assert.Equal(t, "User not found", errs.ErrorMessage(err))
}

func TestFollowUniqueness(t *testing.T) {
	db := testDB(t)

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")

	require.NoError(t, db.Create(&domain.Follow{FollowerID: bob.ID, FollowingID: alice.ID}).Error)
	err := db.Create(&domain.Follow{FollowerID: bob.ID, FollowingID: alice.ID}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
