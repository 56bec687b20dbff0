package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"minigram/internal/model"
	"minigram/internal/repository"
)

// PostService handles the write side of posts: create, edit, delete,
// likes and comments. Reads go through FeedService.
type PostService struct {
	repo        repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

func NewPostService(repo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		repo:        repo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

// Create validates and stores a new post for the author.
func (s *PostService) Create(ctx context.Context, authorID int64, req *model.CreatePostRequest) (*model.Post, error) {
	caption := strings.TrimSpace(req.Caption)
	if caption == "" {
		return nil, model.ErrCaptionRequired
	}
	if len(caption) > model.MaxPostCaptionLength {
		return nil, model.ErrCaptionTooLong
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, model.ErrImageURLRequired
	}

	post := &model.Post{
		AuthorID:        authorID,
		Caption:         caption,
		ImageURL:        strings.TrimSpace(req.ImageURL),
		Tags:            pq.StringArray(normalizeTags(req.Tags)),
		AIGenerated:     req.AIGenerated,
		OriginalCaption: req.OriginalCaption,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.attachAuthor(ctx, post)
	return post, nil
}

// Update edits the caption and/or tags of the author's own post.
func (s *PostService) Update(ctx context.Context, postID, authorID int64, req *model.UpdatePostRequest) (*model.Post, error) {
	var caption *string
	if req.Caption != nil {
		trimmed := strings.TrimSpace(*req.Caption)
		if trimmed == "" {
			return nil, model.ErrCaptionRequired
		}
		if len(trimmed) > model.MaxPostCaptionLength {
			return nil, model.ErrCaptionTooLong
		}
		caption = &trimmed
	}

	var tags []string
	if req.Tags != nil {
		tags = normalizeTags(req.Tags)
	}

	post, err := s.repo.Update(ctx, postID, authorID, caption, tags)
	if err != nil {
		return nil, err
	}

	s.attachAuthor(ctx, post)
	return post, nil
}

// Delete removes the author's own post.
func (s *PostService) Delete(ctx context.Context, postID, authorID int64) error {
	return s.repo.Delete(ctx, postID, authorID)
}

// Like records a like by userID on the post.
func (s *PostService) Like(ctx context.Context, postID, userID int64) error {
	exists, err := s.repo.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return model.ErrPostNotFound
	}
	return s.repo.Like(ctx, postID, userID)
}

// Unlike removes an existing like by userID on the post.
func (s *PostService) Unlike(ctx context.Context, postID, userID int64) error {
	exists, err := s.repo.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return model.ErrPostNotFound
	}
	return s.repo.Unlike(ctx, postID, userID)
}

// AddComment validates and appends a comment to the post.
func (s *PostService) AddComment(ctx context.Context, postID, authorID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, model.ErrCommentTextRequired
	}
	if len(text) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	exists, err := s.repo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comment, err := s.commentRepo.Create(ctx, postID, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes the author's own comment from the post.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, authorID int64) error {
	exists, err := s.repo.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return model.ErrPostNotFound
	}
	return s.commentRepo.Delete(ctx, postID, commentID, authorID)
}

func (s *PostService) attachAuthor(ctx context.Context, post *model.Post) {
	summaries, err := s.userRepo.GetSummariesByIDs(ctx, []int64{post.AuthorID})
	if err != nil {
		return
	}
	if summary, ok := summaries[post.AuthorID]; ok {
		post.Author = &summary
	}
}

// normalizeTags lowercases, trims and de-duplicates tags, dropping empty
// entries and stray leading '#'.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		t = strings.TrimPrefix(t, "#")
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
