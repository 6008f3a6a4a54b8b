package crud

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"devconnect/domain"
	"devconnect/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
// Any authenticated user may comment on any existing post.
func (cv *commentValidator) Create(ctx context.Context, comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.userIdValid,
		cv.postCommentedExists,
		cv.contentRequired)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(ctx, comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the passed in Comment object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment object and returns an error.
type commentValFn func(comment *domain.Comment) error

// contentRequired makes sure that the Comment's content is not empty.
func (cv *commentValidator) contentRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Comment content cannot be empty")
	}
	return nil
}

// postCommentedExists makes sure that the post to be commented on actually exists.
func (cv *commentValidator) postCommentedExists(comment *domain.Comment) error {
	return postExists(cv.db, comment.PostID)
}

// userIdValid ensures that the userId is not empty.
func (cv *commentValidator) userIdValid(comment *domain.Comment) error {
	if comment.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid user ID.")
	}
	return nil
}

// ByPostID retrieves all comments of a post in creation order, oldest first,
// with their authors and the commented post denormalized for display.
func (cg *commentGorm) ByPostID(ctx context.Context, postID int) ([]domain.Comment, error) {
	db := cg.db.WithContext(ctx)
	if err := postExists(db, postID); err != nil {
		return nil, err
	}
	var comments []domain.Comment
	err := db.
		Where("post_id = ?", postID).
		Preload("User").
		Preload("Post.User").
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
// On success, it eager-loads the author and post relations, so that the json
// response displays them in full.
func (cg *commentGorm) Create(ctx context.Context, comment *domain.Comment) error {
	db := cg.db.WithContext(ctx)
	if err := db.Create(comment).Error; err != nil {
		return err
	}
	return db.
		Preload("User").
		Preload("Post.User").
		First(comment, comment.ID).Error
}
