package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"minigram/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a comment and bumps the post's comment_count in one
// transaction.
func (r *commentRepository) Create(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO post_comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, author_id, content, created_at
	`
	var comment model.Comment
	err = tx.GetContext(ctx, &comment, query, postID, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count + 1, updated_at = NOW() WHERE id = $1`, postID); err != nil {
		return nil, fmt.Errorf("update comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &comment, nil
}

// Delete removes a comment after an ownership check and decrements the
// post's comment_count.
func (r *commentRepository) Delete(ctx context.Context, postID, commentID, authorID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owner int64
	err = tx.GetContext(ctx, &owner,
		`SELECT author_id FROM post_comments WHERE id = $1 AND post_id = $2`, commentID, postID)
	if err == sql.ErrNoRows {
		return model.ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}
	if owner != authorID {
		return model.ErrNotCommentOwner
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count - 1, updated_at = NOW() WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("update comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByPostIDs batch-loads comments with author display fields for a set of
// posts, oldest first within each post (insertion order).
func (r *commentRepository) GetByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	if len(postIDs) == 0 {
		return map[int64][]model.Comment{}, nil
	}

	query := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
		       u.id as author_user_id, u.username as author_username,
		       u.full_name as author_full_name, u.profile_image as author_profile_image
		FROM post_comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.post_id, c.created_at, c.id
	`

	type commentRow struct {
		ID                 int64     `db:"id"`
		PostID             int64     `db:"post_id"`
		AuthorID           int64     `db:"author_id"`
		Content            string    `db:"content"`
		CreatedAt          time.Time `db:"created_at"`
		AuthorUserID       int64     `db:"author_user_id"`
		AuthorUsername     string    `db:"author_username"`
		AuthorFullName     *string   `db:"author_full_name"`
		AuthorProfileImage *string   `db:"author_profile_image"`
	}

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}

	result := make(map[int64][]model.Comment)
	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], model.Comment{
			ID:        row.ID,
			PostID:    row.PostID,
			AuthorID:  row.AuthorID,
			Text:      row.Content,
			CreatedAt: row.CreatedAt,
			Author: &model.UserSummary{
				ID:           row.AuthorUserID,
				Username:     row.AuthorUsername,
				FullName:     row.AuthorFullName,
				ProfileImage: row.AuthorProfileImage,
			},
		})
	}
	return result, nil
}
