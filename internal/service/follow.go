package service

import (
	"context"
	"fmt"
	"log"

	"minigram/internal/cache"
	"minigram/internal/model"
	"minigram/internal/repository"
)

// FollowService handles the follow graph between users
type FollowService struct {
	repo           repository.FollowRepository
	userRepo       repository.UserRepository
	followingCache cache.FollowingCache
}

func NewFollowService(repo repository.FollowRepository, userRepo repository.UserRepository, followingCache cache.FollowingCache) *FollowService {
	return &FollowService{
		repo:           repo,
		userRepo:       userRepo,
		followingCache: followingCache,
	}
}

// Follow makes followerID follow followeeID.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	exists, err := s.userRepo.ExistsByID(ctx, followeeID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return model.ErrUserNotFound
	}

	if err := s.repo.Follow(ctx, followerID, followeeID); err != nil {
		return err
	}

	s.invalidateFollowing(ctx, followerID)
	return nil
}

// Unfollow removes an existing follow relationship.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	exists, err := s.userRepo.ExistsByID(ctx, followeeID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return model.ErrUserNotFound
	}

	if err := s.repo.Unfollow(ctx, followerID, followeeID); err != nil {
		return err
	}

	s.invalidateFollowing(ctx, followerID)
	return nil
}

// GetFollowingIDs returns the IDs the user follows, served from cache when
// possible.
func (s *FollowService) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	if s.followingCache != nil {
		ids, found, err := s.followingCache.Get(ctx, userID)
		if err != nil {
			log.Printf("[FollowService] Following cache read failed for user=%d: %v", userID, err)
		} else if found {
			return ids, nil
		}
	}

	ids, err := s.repo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}

	if s.followingCache != nil {
		if err := s.followingCache.Set(ctx, userID, ids); err != nil {
			log.Printf("[FollowService] Following cache write failed for user=%d: %v", userID, err)
		}
	}

	return ids, nil
}

func (s *FollowService) invalidateFollowing(ctx context.Context, userID int64) {
	if s.followingCache == nil {
		return
	}
	if err := s.followingCache.Invalidate(ctx, userID); err != nil {
		log.Printf("[FollowService] Following cache invalidation failed for user=%d: %v", userID, err)
	}
}
