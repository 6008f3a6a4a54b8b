package crud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/domain"
	"devconnect/errs"
)

func TestCommentCreate(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)

	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")
	post := testPost(t, db, alice, "hello world")

	comment := domain.Comment{UserID: bob.ID, PostID: post.ID, Content: "nice post"}
	require.NoError(t, cs.Create(context.Background(), &comment))
	assert.NotZero(t, comment.ID)
	// Author and post come back denormalized for the json response.
	assert.Equal(t, "bob", comment.User.Username)
	assert.Equal(t, "hello world", comment.Post.Content)
	assert.Equal(t, "alice", comment.Post.User.Username)
}

func TestCommentCreate_EmptyContent(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)

	alice := testUser(t, db, "alice")
	post := testPost(t, db, alice, "hello world")

	comment := domain.Comment{UserID: alice.ID, PostID: post.ID, Content: "  "}
	err := cs.Create(context.Background(), &comment)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	assert.Equal(t, "Comment content cannot be empty", errs.ErrorMessage(err))
	assert.EqualValues(t, 0, count(t, db, domain.Comment{}))
}

func TestCommentCreate_PostNotFound(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)

	alice := testUser(t, db, "alice")

	comment := domain.Comment{UserID: alice.ID, PostID: 12345, Content: "into the void"}
	err := cs.Create(context.Background(), &comment)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	assert.Equal(t, "Post not found", errs.ErrorMessage(err))
}

func TestCommentsByPostID_OldestFirst(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	ctx := context.Background()

	alice := testUser(t, db, "alice")
	post := testPost(t, db, alice, "hello world")

	// Insert out of chronological order to make sure ordering comes from
	// created_at, not insertion order.
	later := domain.Comment{UserID: alice.ID, PostID: post.ID, Content: "second", CreatedAt: time.Now()}
	require.NoError(t, cs.Create(ctx, &later))
	earlier := domain.Comment{UserID: alice.ID, PostID: post.ID, Content: "first", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, cs.Create(ctx, &earlier))

	comments, err := cs.ByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}

func TestCommentsByPostID_PostNotFound(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)

	testUser(t, db, "alice")

	_, err := cs.ByPostID(context.Background(), 12345)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
