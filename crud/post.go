package crud

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"devconnect/domain"
	"devconnect/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(ctx context.Context, post *domain.Post) error {
	err := runPostValFns(post,
		pv.userIdValid,
		pv.contentRequired)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(ctx, post)
}

// Update replaces a post's content. Only the author may do that, anyone else
// gets EFORBIDDEN and the record stays untouched. The last writer wins under
// concurrent edits.
func (pv *postValidator) Update(ctx context.Context, userID, postID int, content string) (*domain.Post, error) {
	post, err := pv.postGorm.ByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, errs.Errorf(errs.EFORBIDDEN, "You do not have permission to edit this post.")
	}
	post.Content = content
	if err := runPostValFns(post, pv.contentRequired); err != nil {
		return nil, err
	}
	if err := pv.postGorm.Update(ctx, post); err != nil {
		return nil, err
	}
	return pv.postGorm.ByID(ctx, postID)
}

// Delete removes a post. Only the author may do that. The post's likes and
// comments are removed by the database's foreign key cascades.
func (pv *postValidator) Delete(ctx context.Context, userID, postID int) error {
	post, err := pv.postGorm.ByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return errs.Errorf(errs.EFORBIDDEN, "You do not have permission to delete this post.")
	}
	return pv.postGorm.Delete(ctx, post)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn func(post *domain.Post) error

// contentRequired makes sure that the Post's content is not empty.
func (pv *postValidator) contentRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Post content cannot be empty")
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (pv *postValidator) userIdValid(post *domain.Post) error {
	if post.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid user ID.")
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its author and live like count.
func (pg *postGorm) ByID(ctx context.Context, id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.WithContext(ctx).
		Preload("User").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Post not found")
		}
		return nil, err
	}
	if err := pg.setLikeCounts(ctx, []*domain.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// All retrieves every post, newest first, with authors and live like counts.
func (pg *postGorm) All(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.WithContext(ctx).
		Preload("User").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := pg.setLikeCountsSlice(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ByUserID retrieves a single author's posts, newest first.
func (pg *postGorm) ByUserID(ctx context.Context, userID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("User").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := pg.setLikeCountsSlice(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores the data from the Post object in a new database record.
// On success, it eager-loads the author relation, so that the json response
// displays the full data of the post's author.
func (pg *postGorm) Create(ctx context.Context, post *domain.Post) error {
	if err := pg.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	return pg.db.WithContext(ctx).Preload("User").First(post, post.ID).Error
}

// Update saves changes to an existing post record in the database.
func (pg *postGorm) Update(ctx context.Context, post *domain.Post) error {
	return pg.db.WithContext(ctx).Omit("User").Save(post).Error
}

// Delete permanently deletes a post record from the database.
func (pg *postGorm) Delete(ctx context.Context, post *domain.Post) error {
	return pg.db.WithContext(ctx).Delete(&domain.Post{}, post.ID).Error
}

// setLikeCountsSlice is the []domain.Post variant of setLikeCounts.
func (pg *postGorm) setLikeCountsSlice(ctx context.Context, posts []domain.Post) error {
	refs := make([]*domain.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	return pg.setLikeCounts(ctx, refs)
}

// setLikeCounts annotates the given posts with their like counts using a
// single grouped query, so listing n posts doesn't cost n count queries.
func (pg *postGorm) setLikeCounts(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	type likeRow struct {
		PostID int
		N      int
	}
	var rows []likeRow
	err := pg.db.WithContext(ctx).
		Model(&domain.Like{}).
		Select("post_id, count(*) as n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Find(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.N
	}
	for _, p := range posts {
		p.LikeCount = counts[p.ID]
	}
	return nil
}
