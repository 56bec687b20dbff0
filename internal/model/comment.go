package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        int64        `db:"id" json:"id"`
	PostID    int64        `db:"post_id" json:"post_id"`
	AuthorID  int64        `db:"author_id" json:"-"`
	Text      string       `db:"content" json:"text"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	Author    *UserSummary `json:"author,omitempty"` // Joined field
}

// CreateCommentRequest is the request body for adding a comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// Comment constraints
const (
	MaxCommentLength = 500
)

// Comment errors
var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrNotCommentOwner     = errors.New("not the owner of this comment")
	ErrCommentTextRequired = errors.New("comment text is required")
	ErrCommentTooLong      = errors.New("comment text too long")
)
