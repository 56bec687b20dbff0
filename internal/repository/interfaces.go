package repository

import (
	"context"

	"minigram/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error)
	GetSummariesByIDs(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
}

type FollowRepository interface {
	// Follow inserts the edge and bumps both denormalized counters in a
	// single transaction. Returns ErrAlreadyFollowing on a duplicate edge.
	Follow(ctx context.Context, followerID, followeeID int64) error
	// Unfollow removes the edge and decrements both counters in a single
	// transaction. Returns ErrNotFollowing when no edge exists.
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error)
	GetFollowerSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error)
	GetFollowingSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error)
}

// PostFilter narrows post list queries. Zero value selects every post.
type PostFilter struct {
	// AuthorIDs restricts to posts authored by any of these users.
	AuthorIDs []int64
	// Tag restricts to posts whose tag set contains this (lowercase) tag.
	Tag string
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// Update applies the non-nil fields after verifying ownership.
	Update(ctx context.Context, postID, authorID int64, caption *string, tags []string) (*model.Post, error)
	// Delete removes the post after verifying ownership.
	Delete(ctx context.Context, postID, authorID int64) error
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]model.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	Exists(ctx context.Context, postID int64) (bool, error)
	// Like/Unlike mutate the membership row and the like_count in a single
	// transaction. Redundant calls fail with ErrAlreadyLiked / ErrNotLiked.
	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
	GetLikersByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.UserSummary, error)
}

type CommentRepository interface {
	// Create appends the comment and bumps comment_count transactionally.
	Create(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error)
	// Delete removes the comment after an ownership check and decrements
	// comment_count transactionally.
	Delete(ctx context.Context, postID, commentID, authorID int64) error
	GetByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error)
}
