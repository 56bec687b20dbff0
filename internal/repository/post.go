package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"minigram/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, author_id, caption, image_url, tags, ai_generated, original_caption,
	       like_count, comment_count, created_at, updated_at`

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (author_id, caption, image_url, tags, ai_generated, original_caption)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, like_count, comment_count, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.AuthorID,
		p.Caption,
		p.ImageURL,
		p.Tags,
		p.AIGenerated,
		p.OriginalCaption,
	)

	err := row.Scan(&p.ID, &p.LikeCount, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Update applies the provided fields only. Ownership is enforced in SQL:
// a zero-row update is disambiguated into NotFound vs NotOwner afterwards.
func (r *postRepository) Update(ctx context.Context, postID, authorID int64, caption *string, tags []string) (*model.Post, error) {
	var tagsParam interface{}
	if tags != nil {
		tagsParam = pq.StringArray(tags)
	}

	query := `
		UPDATE posts
		SET caption    = COALESCE($1, caption),
		    tags       = COALESCE($2, tags),
		    updated_at = NOW()
		WHERE id = $3 AND author_id = $4
		RETURNING ` + postColumns + `
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, caption, tagsParam, postID, authorID)
	if err == sql.ErrNoRows {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
		if exists {
			return nil, model.ErrNotPostOwner
		}
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &post, nil
}

// Delete removes a post. Same ownership disambiguation as Update.
func (r *postRepository) Delete(ctx context.Context, postID, authorID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND author_id = $2`, postID, authorID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
		if exists {
			return model.ErrNotPostOwner
		}
		return model.ErrPostNotFound
	}
	return nil
}

// buildFilter renders the WHERE clause for a PostFilter.
func buildFilter(filter PostFilter, args *[]interface{}) string {
	var conds []string
	if filter.AuthorIDs != nil {
		*args = append(*args, pq.Array(filter.AuthorIDs))
		conds = append(conds, fmt.Sprintf("author_id = ANY($%d)", len(*args)))
	}
	if filter.Tag != "" {
		*args = append(*args, filter.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(*args)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// List returns a page of posts, newest first. Equal timestamps are broken
// by id so pages are stable.
func (r *postRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]model.Post, error) {
	var args []interface{}
	where := buildFilter(filter, &args)

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT `+postColumns+`
		FROM posts%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, limitPos, offsetPos)

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Count returns the number of posts matching the filter.
func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var args []interface{}
	where := buildFilter(filter, &args)

	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

// Exists checks if a post exists.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

// Like inserts the membership row and bumps like_count in one transaction.
// The primary key on (post_id, user_id) turns a duplicate into ErrAlreadyLiked.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count + 1, updated_at = NOW() WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("update like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Unlike removes the membership row and decrements like_count.
// Returns ErrNotLiked when there was nothing to remove.
func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count - 1, updated_at = NOW() WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("update like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CheckLikes checks which posts the user has liked.
// Returns a map of post_id -> liked (true/false).
func (r *postRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if len(postIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(postIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check likes: %w", err)
	}

	result := make(map[int64]bool)
	for _, id := range postIDs {
		result[id] = false
	}
	for _, id := range likedIDs {
		result[id] = true
	}

	return result, nil
}

// GetLikersByPostIDs batch-loads liker display fields for a set of posts in
// one query, keyed by post ID.
func (r *postRepository) GetLikersByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.UserSummary, error) {
	if len(postIDs) == 0 {
		return map[int64][]model.UserSummary{}, nil
	}

	query := `
		SELECT pl.post_id, u.id, u.username, u.full_name, u.profile_image
		FROM post_likes pl
		JOIN users u ON u.id = pl.user_id
		WHERE pl.post_id = ANY($1)
		ORDER BY pl.post_id, pl.created_at
	`

	type likerRow struct {
		PostID       int64   `db:"post_id"`
		ID           int64   `db:"id"`
		Username     string  `db:"username"`
		FullName     *string `db:"full_name"`
		ProfileImage *string `db:"profile_image"`
	}

	var rows []likerRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("get post likers: %w", err)
	}

	result := make(map[int64][]model.UserSummary)
	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], model.UserSummary{
			ID:           row.ID,
			Username:     row.Username,
			FullName:     row.FullName,
			ProfileImage: row.ProfileImage,
		})
	}
	return result, nil
}
