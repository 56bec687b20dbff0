package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// Post represents a user's post with its metadata.
type Post struct {
	ID              int64          `db:"id" json:"id"`
	AuthorID        int64          `db:"author_id" json:"author_id"`
	Caption         string         `db:"caption" json:"caption"`
	ImageURL        string         `db:"image_url" json:"image_url"`
	Tags            pq.StringArray `db:"tags" json:"tags"`
	AIGenerated     bool           `db:"ai_generated" json:"ai_generated"`
	OriginalCaption *string        `db:"original_caption" json:"original_caption,omitempty"`
	LikeCount       int            `db:"like_count" json:"like_count"`
	CommentCount    int            `db:"comment_count" json:"comment_count"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`

	// Joined fields (not in posts table)
	Author   *UserSummary  `json:"author,omitempty"`
	Likes    []UserSummary `json:"likes,omitempty"`
	Comments []Comment     `json:"comments,omitempty"`
	IsLiked  bool          `json:"is_liked"`
}

// Pagination is the page/limit accounting attached to every list response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// PostPage is a page of expanded posts plus its pagination accounting.
type PostPage struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Caption         string   `json:"caption"`
	ImageURL        string   `json:"imageUrl"`
	Tags            []string `json:"tags"`
	AIGenerated     bool     `json:"aiGenerated"`
	OriginalCaption *string  `json:"originalCaption"`
}

// UpdatePostRequest carries a partial update; nil fields are left unchanged.
type UpdatePostRequest struct {
	Caption *string  `json:"caption"`
	Tags    []string `json:"tags"`
}

// Post constraints
const (
	MaxPostCaptionLength = 2000
)

// Post errors
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNotPostOwner     = errors.New("not the owner of this post")
	ErrCaptionRequired  = errors.New("caption is required")
	ErrImageURLRequired = errors.New("image url is required")
	ErrCaptionTooLong   = errors.New("caption too long")
	ErrAlreadyLiked     = errors.New("post already liked")
	ErrNotLiked         = errors.New("post not liked")
)
