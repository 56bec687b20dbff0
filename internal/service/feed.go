package service

import (
	"context"
	"fmt"
	"log"

	"minigram/internal/model"
	"minigram/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// followingLister yields the IDs a user follows. Satisfied by FollowService.
type followingLister interface {
	GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error)
}

// FeedService assembles paginated, expanded post lists for a viewer.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	following   followingLister
}

func NewFeedService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository, following followingLister) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		following:   following,
	}
}

// ListAll returns the global feed, newest first.
func (s *FeedService) ListAll(ctx context.Context, viewerID int64, page, limit int) (*model.PostPage, error) {
	return s.list(ctx, viewerID, repository.PostFilter{}, page, limit)
}

// ListFollowing returns the personalized feed: posts by users the viewer
// follows plus the viewer's own posts.
func (s *FeedService) ListFollowing(ctx context.Context, viewerID int64, page, limit int) (*model.PostPage, error) {
	followingIDs, err := s.following.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}

	authorIDs := make([]int64, 0, len(followingIDs)+1)
	authorIDs = append(authorIDs, viewerID)
	for _, id := range followingIDs {
		if id != viewerID {
			authorIDs = append(authorIDs, id)
		}
	}

	return s.list(ctx, viewerID, repository.PostFilter{AuthorIDs: authorIDs}, page, limit)
}

// ListByAuthor returns a single user's posts.
func (s *FeedService) ListByAuthor(ctx context.Context, viewerID, authorID int64, page, limit int) (*model.PostPage, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.list(ctx, viewerID, repository.PostFilter{AuthorIDs: []int64{authorID}}, page, limit)
}

// ListByTag returns posts whose tag set contains the given tag.
func (s *FeedService) ListByTag(ctx context.Context, viewerID int64, tag string, page, limit int) (*model.PostPage, error) {
	return s.list(ctx, viewerID, repository.PostFilter{Tag: tag}, page, limit)
}

// GetByID returns one post, fully expanded for the viewer.
func (s *FeedService) GetByID(ctx context.Context, viewerID, postID int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	posts := []model.Post{*post}
	if err := s.expand(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (s *FeedService) list(ctx context.Context, viewerID int64, filter repository.PostFilter, page, limit int) (*model.PostPage, error) {
	page, limit = normalizePage(page, limit)

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	posts := []model.Post{}
	if total > 0 {
		offset := (page - 1) * limit
		if int64(offset) < total {
			posts, err = s.postRepo.List(ctx, filter, offset, limit)
			if err != nil {
				return nil, fmt.Errorf("failed to list posts: %w", err)
			}
		}
	}

	if err := s.expand(ctx, viewerID, posts); err != nil {
		return nil, err
	}

	return &model.PostPage{
		Posts: posts,
		Pagination: model.Pagination{
			Total: total,
			Page:  page,
			Pages: totalPages(total, limit),
		},
	}, nil
}

// expand attaches author summaries, liker lists, comments and the viewer's
// is_liked flag using one batch query per relation.
func (s *FeedService) expand(ctx context.Context, viewerID int64, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]int64, 0, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.AuthorID)
	}

	authors, err := s.userRepo.GetSummariesByIDs(ctx, authorIDs)
	if err != nil {
		return fmt.Errorf("failed to load post authors: %w", err)
	}

	likers, err := s.postRepo.GetLikersByPostIDs(ctx, postIDs)
	if err != nil {
		return fmt.Errorf("failed to load post likes: %w", err)
	}

	comments, err := s.commentRepo.GetByPostIDs(ctx, postIDs)
	if err != nil {
		return fmt.Errorf("failed to load post comments: %w", err)
	}

	liked := map[int64]bool{}
	if viewerID != 0 {
		liked, err = s.postRepo.CheckLikes(ctx, viewerID, postIDs)
		if err != nil {
			// is_liked is decoration; don't fail the feed over it
			log.Printf("[FeedService] Failed to check likes for user=%d: %v", viewerID, err)
			liked = map[int64]bool{}
		}
	}

	for i := range posts {
		p := &posts[i]
		if author, ok := authors[p.AuthorID]; ok {
			p.Author = &author
		}
		p.Likes = likers[p.ID]
		if p.Likes == nil {
			p.Likes = []model.UserSummary{}
		}
		p.Comments = comments[p.ID]
		if p.Comments == nil {
			p.Comments = []model.Comment{}
		}
		p.IsLiked = liked[p.ID]
	}

	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
