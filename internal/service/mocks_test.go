package service

import (
	"context"

	"minigram/internal/model"
	"minigram/internal/repository"
)

// Function-field mocks for the repository interfaces. Because the services
// depend on interfaces rather than the sqlx implementations, each test can
// swap in exactly the behavior it needs.

type mockUserRepository struct {
	createFn            func(ctx context.Context, user *model.User) error
	getByIDFn           func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn        func(ctx context.Context, email string) (*model.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (*model.User, error)
	existsByIDFn        func(ctx context.Context, id int64) (bool, error)
	existsByUsernameFn  func(ctx context.Context, username string) (bool, error)
	existsByEmailFn     func(ctx context.Context, email string) (bool, error)
	updateProfileFn     func(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error)
	getSummariesByIDsFn func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if m.existsByIDFn != nil {
		return m.existsByIDFn(ctx, id)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, req)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetSummariesByIDs(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if m.getSummariesByIDsFn != nil {
		return m.getSummariesByIDsFn(ctx, ids)
	}
	return map[int64]model.UserSummary{}, nil
}

type mockFollowRepository struct {
	followFn                func(ctx context.Context, followerID, followeeID int64) error
	unfollowFn              func(ctx context.Context, followerID, followeeID int64) error
	existsFn                func(ctx context.Context, followerID, followeeID int64) (bool, error)
	getFollowingIDsFn       func(ctx context.Context, userID int64) ([]int64, error)
	getFollowerSummariesFn  func(ctx context.Context, userID int64) ([]model.UserSummary, error)
	getFollowingSummariesFn func(ctx context.Context, userID int64) ([]model.UserSummary, error)
}

func (m *mockFollowRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	if m.followFn != nil {
		return m.followFn(ctx, followerID, followeeID)
	}
	return nil
}

func (m *mockFollowRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if m.unfollowFn != nil {
		return m.unfollowFn(ctx, followerID, followeeID)
	}
	return nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followeeID)
	}
	return false, nil
}

func (m *mockFollowRepository) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFollowingIDsFn != nil {
		return m.getFollowingIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFollowRepository) GetFollowerSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	if m.getFollowerSummariesFn != nil {
		return m.getFollowerSummariesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFollowRepository) GetFollowingSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	if m.getFollowingSummariesFn != nil {
		return m.getFollowingSummariesFn(ctx, userID)
	}
	return nil, nil
}

type mockPostRepository struct {
	createFn             func(ctx context.Context, post *model.Post) error
	getByIDFn            func(ctx context.Context, postID int64) (*model.Post, error)
	updateFn             func(ctx context.Context, postID, authorID int64, caption *string, tags []string) (*model.Post, error)
	deleteFn             func(ctx context.Context, postID, authorID int64) error
	listFn               func(ctx context.Context, filter repository.PostFilter, offset, limit int) ([]model.Post, error)
	countFn              func(ctx context.Context, filter repository.PostFilter) (int64, error)
	existsFn             func(ctx context.Context, postID int64) (bool, error)
	likeFn               func(ctx context.Context, postID, userID int64) error
	unlikeFn             func(ctx context.Context, postID, userID int64) error
	checkLikesFn         func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
	getLikersByPostIDsFn func(ctx context.Context, postIDs []int64) (map[int64][]model.UserSummary, error)
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Update(ctx context.Context, postID, authorID int64, caption *string, tags []string) (*model.Post, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, postID, authorID, caption, tags)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Delete(ctx context.Context, postID, authorID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID, authorID)
	}
	return model.ErrPostNotFound
}

func (m *mockPostRepository) List(ctx context.Context, filter repository.PostFilter, offset, limit int) ([]model.Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, offset, limit)
	}
	return nil, nil
}

func (m *mockPostRepository) Count(ctx context.Context, filter repository.PostFilter) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return false, nil
}

func (m *mockPostRepository) Like(ctx context.Context, postID, userID int64) error {
	if m.likeFn != nil {
		return m.likeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) Unlike(ctx context.Context, postID, userID int64) error {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, postIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockPostRepository) GetLikersByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.UserSummary, error) {
	if m.getLikersByPostIDsFn != nil {
		return m.getLikersByPostIDsFn(ctx, postIDs)
	}
	return map[int64][]model.UserSummary{}, nil
}

type mockCommentRepository struct {
	createFn       func(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error)
	deleteFn       func(ctx context.Context, postID, commentID, authorID int64) error
	getByPostIDsFn func(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, authorID, text)
	}
	return &model.Comment{ID: 1, PostID: postID, AuthorID: authorID, Text: text}, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, postID, commentID, authorID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID, commentID, authorID)
	}
	return nil
}

func (m *mockCommentRepository) GetByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	if m.getByPostIDsFn != nil {
		return m.getByPostIDsFn(ctx, postIDs)
	}
	return map[int64][]model.Comment{}, nil
}
