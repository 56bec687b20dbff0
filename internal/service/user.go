package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"minigram/internal/model"
	"minigram/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo       repository.UserRepository
	followRepo repository.FollowRepository
}

func NewUserService(repo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		repo:       repo,
		followRepo: followRepo,
	}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	exists, err = s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Don't reveal whether the email exists or not
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user with follower/following lists expanded.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.expandGraph(ctx, user)
	return user, nil
}

// GetByUsername retrieves a user profile with follower/following lists
// expanded.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.expandGraph(ctx, user)
	return user, nil
}

// UpdateProfile applies the provided display fields and returns the
// refreshed, expanded user.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.UpdateProfile(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.expandGraph(ctx, user)
	return user, nil
}

// expandGraph attaches follower/following display lists. Failures degrade
// to empty lists rather than failing the whole read.
func (s *UserService) expandGraph(ctx context.Context, user *model.User) {
	user.Followers = []model.UserSummary{}
	user.Following = []model.UserSummary{}

	followers, err := s.followRepo.GetFollowerSummaries(ctx, user.ID)
	if err != nil {
		log.Printf("[UserService] Failed to load followers for user=%d: %v", user.ID, err)
	} else if followers != nil {
		user.Followers = followers
	}

	following, err := s.followRepo.GetFollowingSummaries(ctx, user.ID)
	if err != nil {
		log.Printf("[UserService] Failed to load following for user=%d: %v", user.ID, err)
	} else if following != nil {
		user.Following = following
	}
}
