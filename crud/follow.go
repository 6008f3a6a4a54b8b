package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"devconnect/domain"
	"devconnect/errs"
)

// FollowService manages Follows.
// It implements the domain.FollowService interface.
type FollowService struct {
	followGorm
}

// followGorm runs the Follow operations on the database.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followGorm{
			db: db,
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Toggle flips the follow state of (followerID, followingID): it creates the
// Follow row if absent and deletes it if present. Like the like toggle, the
// mutation and the recount share one transaction, and a duplicate key error
// on the insert is treated as "already following, deactivate". Following
// yourself is rejected.
func (fg *followGorm) Toggle(ctx context.Context, followerID, followingID int) (*domain.FollowStatus, error) {
	if followerID == followingID {
		return nil, errs.Errorf(errs.EINVALID, "You cannot follow yourself")
	}

	var status domain.FollowStatus
	err := fg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, followingID); err != nil {
			return err
		}

		var existing domain.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&domain.Follow{}, existing.ID).Error; err != nil {
				return err
			}
			status.Following = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			follow := domain.Follow{FollowerID: followerID, FollowingID: followingID}
			// Savepoint for the same reason as the like toggle: a unique
			// violation must not abort the surrounding transaction.
			err := tx.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&follow).Error
			})
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
					Delete(&domain.Follow{}).Error; err != nil {
					return err
				}
				status.Following = false
			} else if err != nil {
				return err
			} else {
				status.Following = true
			}
		default:
			return err
		}

		return fillFollowStatus(tx, followingID, &status)
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Status returns the live follower count and follower list of a user without
// mutating anything. It requires no authentication.
func (fg *followGorm) Status(ctx context.Context, userID int) (*domain.FollowStatus, error) {
	var status domain.FollowStatus
	db := fg.db.WithContext(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, err
	}
	if err := fillFollowStatus(db, userID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// fillFollowStatus recomputes the aggregate count and follower list for a user.
func fillFollowStatus(db *gorm.DB, userID int, status *domain.FollowStatus) error {
	var count int64
	err := db.Model(&domain.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	status.Count = int(count)

	var followers []domain.User
	err = db.Model(&domain.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at asc").
		Find(&followers).Error
	if err != nil {
		return err
	}
	status.Followers = followers
	return nil
}

// userExists returns ENOTFOUND if the given user is absent.
func userExists(db *gorm.DB, userID int) error {
	err := db.First(&domain.User{}, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Errorf(errs.ENOTFOUND, "User not found")
	}
	return err
}
