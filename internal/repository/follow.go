package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"minigram/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the graph edge and updates both users' counters in one
// transaction, so the two sides of the relationship can never diverge.
func (r *followRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrAlreadyFollowing
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET following_count = following_count + 1 WHERE id = $1`, followerID); err != nil {
		return fmt.Errorf("failed to increment following count: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET follower_count = follower_count + 1 WHERE id = $1`, followeeID); err != nil {
		return fmt.Errorf("failed to increment follower count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Unfollow removes the edge and decrements both counters transactionally.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFollowing
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET following_count = following_count - 1 WHERE id = $1`, followerID); err != nil {
		return fmt.Errorf("failed to decrement following count: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET follower_count = follower_count - 1 WHERE id = $1`, followeeID); err != nil {
		return fmt.Errorf("failed to decrement follower count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// GetFollowingIDs returns the IDs of everyone the user follows.
func (r *followRepository) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT followee_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}
	return ids, nil
}

// GetFollowerSummaries returns display fields for users who follow userID,
// newest follow first.
func (r *followRepository) GetFollowerSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.profile_image
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return users, nil
}

// GetFollowingSummaries returns display fields for users that userID follows,
// newest follow first.
func (r *followRepository) GetFollowingSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.profile_image
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return users, nil
}
