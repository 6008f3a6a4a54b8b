package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"devconnect/domain"
	"devconnect/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeGorm
}

// likeGorm runs the Like operations on the database.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeGorm{
			db: db,
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Toggle flips the like state of (userID, postID): it creates the Like row if
// absent and deletes it if present. The whole sequence, including the recount,
// runs in one transaction so a concurrent reader never observes the count
// mid-mutation. The create path relies on the unique index: a duplicate key
// error means another request activated the like first, in which case this
// call proceeds as a deactivation.
func (lg *likeGorm) Toggle(ctx context.Context, userID, postID int) (*domain.LikeStatus, error) {
	var status domain.LikeStatus
	err := lg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}

		var existing domain.Like
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case err == nil:
			// Already liked, deactivate.
			if err := tx.Delete(&domain.Like{}, existing.ID).Error; err != nil {
				return err
			}
			status.Liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := domain.Like{UserID: userID, PostID: postID}
			// The insert gets its own savepoint. On postgres a unique
			// violation aborts the surrounding transaction, and without
			// the savepoint the deactivate and recount below would fail
			// on the aborted connection.
			err := tx.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&like).Error
			})
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race against a concurrent toggle, treat the row
				// as existing and deactivate.
				if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).
					Delete(&domain.Like{}).Error; err != nil {
					return err
				}
				status.Liked = false
			} else if err != nil {
				return err
			} else {
				status.Liked = true
			}
		default:
			return err
		}

		return fillLikeStatus(tx, postID, &status)
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Status returns the live like count and likers of a post without mutating
// anything. It requires no authentication.
func (lg *likeGorm) Status(ctx context.Context, postID int) (*domain.LikeStatus, error) {
	var status domain.LikeStatus
	db := lg.db.WithContext(ctx)
	if err := postExists(db, postID); err != nil {
		return nil, err
	}
	if err := fillLikeStatus(db, postID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// LikedPostIDs returns the set of post IDs the given user has liked.
// The page-rendering path uses it to mark posts as liked in the feed.
func (lg *likeGorm) LikedPostIDs(ctx context.Context, userID int) (map[int]bool, error) {
	var ids []int
	err := lg.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	liked := make(map[int]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// fillLikeStatus recomputes the aggregate count and member list for a post.
func fillLikeStatus(db *gorm.DB, postID int, status *domain.LikeStatus) error {
	var count int64
	err := db.Model(&domain.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return err
	}
	status.Count = int(count)

	var users []domain.User
	err = db.Model(&domain.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at asc").
		Find(&users).Error
	if err != nil {
		return err
	}
	status.Users = users
	return nil
}

// postExists returns ENOTFOUND if the given post is absent.
func postExists(db *gorm.DB, postID int) error {
	err := db.First(&domain.Post{}, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Errorf(errs.ENOTFOUND, "Post not found")
	}
	return err
}
