package integration_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"minigram/internal/model"
	"minigram/internal/repository"
)

// memStore is an in-memory stand-in for Postgres so the full HTTP stack
// can be exercised without external services. It mirrors the repository
// semantics: sentinel errors, ownership checks and denormalized counters.
type memStore struct {
	mu sync.Mutex

	users      map[int64]*model.User
	nextUserID int64

	follows map[[2]int64]time.Time // [follower, followee]

	posts      map[int64]*model.Post
	nextPostID int64

	likes map[[2]int64]time.Time // [post, user]

	comments      map[int64]*model.Comment
	nextCommentID int64

	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*model.User{},
		follows:  map[[2]int64]time.Time{},
		posts:    map[int64]*model.Post{},
		likes:    map[[2]int64]time.Time{},
		comments: map[int64]*model.Comment{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) userSummary(id int64) (model.UserSummary, bool) {
	u, ok := s.users[id]
	if !ok {
		return model.UserSummary{}, false
	}
	return u.Summary(), true
}

// ---- UserRepository ----

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return model.ErrEmailExists
		}
		if u.Username == user.Username {
			return model.ErrUsernameExists
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.tick()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *memUserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	if req.FullName != nil {
		u.FullName = req.FullName
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}
	if req.ProfileImage != nil {
		u.ProfileImage = req.ProfileImage
	}
	u.UpdatedAt = r.s.tick()
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetSummariesByIDs(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := map[int64]model.UserSummary{}
	for _, id := range ids {
		if summary, ok := r.s.userSummary(id); ok {
			result[id] = summary
		}
	}
	return result, nil
}

// ---- FollowRepository ----

type memFollowRepo struct{ s *memStore }

func (r *memFollowRepo) Follow(ctx context.Context, followerID, followeeID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int64{followerID, followeeID}
	if _, ok := s.follows[key]; ok {
		return model.ErrAlreadyFollowing
	}
	s.follows[key] = s.tick()
	s.users[followerID].FollowingCount++
	s.users[followeeID].FollowerCount++
	return nil
}

func (r *memFollowRepo) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int64{followerID, followeeID}
	if _, ok := s.follows[key]; !ok {
		return model.ErrNotFollowing
	}
	delete(s.follows, key)
	s.users[followerID].FollowingCount--
	s.users[followeeID].FollowerCount--
	return nil
}

func (r *memFollowRepo) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.follows[[2]int64{followerID, followeeID}]
	return ok, nil
}

func (r *memFollowRepo) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int64
	for key := range r.s.follows {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func (r *memFollowRepo) GetFollowerSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var summaries []model.UserSummary
	for key := range r.s.follows {
		if key[1] == userID {
			if summary, ok := r.s.userSummary(key[0]); ok {
				summaries = append(summaries, summary)
			}
		}
	}
	return summaries, nil
}

func (r *memFollowRepo) GetFollowingSummaries(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var summaries []model.UserSummary
	for key := range r.s.follows {
		if key[0] == userID {
			if summary, ok := r.s.userSummary(key[1]); ok {
				summaries = append(summaries, summary)
			}
		}
	}
	return summaries, nil
}

// ---- PostRepository ----

type memPostRepo struct{ s *memStore }

func (r *memPostRepo) Create(ctx context.Context, post *model.Post) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPostID++
	post.ID = s.nextPostID
	post.CreatedAt = s.tick()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memPostRepo) Update(ctx context.Context, postID, authorID int64, caption *string, tags []string) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	if p.AuthorID != authorID {
		return nil, model.ErrNotPostOwner
	}
	if caption != nil {
		p.Caption = *caption
	}
	if tags != nil {
		p.Tags = pq.StringArray(tags)
	}
	p.UpdatedAt = r.s.tick()
	copied := *p
	return &copied, nil
}

func (r *memPostRepo) Delete(ctx context.Context, postID, authorID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return model.ErrPostNotFound
	}
	if p.AuthorID != authorID {
		return model.ErrNotPostOwner
	}
	delete(r.s.posts, postID)
	for key := range r.s.likes {
		if key[0] == postID {
			delete(r.s.likes, key)
		}
	}
	for id, c := range r.s.comments {
		if c.PostID == postID {
			delete(r.s.comments, id)
		}
	}
	return nil
}

func (r *memPostRepo) matches(p *model.Post, filter repository.PostFilter) bool {
	if filter.Tag != "" {
		found := false
		for _, tag := range p.Tags {
			if strings.EqualFold(tag, filter.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.AuthorIDs != nil {
		for _, id := range filter.AuthorIDs {
			if p.AuthorID == id {
				return true
			}
		}
		return false
	}
	return true
}

func (r *memPostRepo) List(ctx context.Context, filter repository.PostFilter, offset, limit int) ([]model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []model.Post
	for _, p := range r.s.posts {
		if r.matches(p, filter) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memPostRepo) Count(ctx context.Context, filter repository.PostFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.posts {
		if r.matches(p, filter) {
			n++
		}
	}
	return n, nil
}

func (r *memPostRepo) Exists(ctx context.Context, postID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.posts[postID]
	return ok, nil
}

func (r *memPostRepo) Like(ctx context.Context, postID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int64{postID, userID}
	if _, ok := r.s.likes[key]; ok {
		return model.ErrAlreadyLiked
	}
	r.s.likes[key] = r.s.tick()
	r.s.posts[postID].LikeCount++
	return nil
}

func (r *memPostRepo) Unlike(ctx context.Context, postID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int64{postID, userID}
	if _, ok := r.s.likes[key]; !ok {
		return model.ErrNotLiked
	}
	delete(r.s.likes, key)
	r.s.posts[postID].LikeCount--
	return nil
}

func (r *memPostRepo) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := map[int64]bool{}
	for _, postID := range postIDs {
		if _, ok := r.s.likes[[2]int64{postID, userID}]; ok {
			result[postID] = true
		}
	}
	return result, nil
}

func (r *memPostRepo) GetLikersByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := map[int64][]model.UserSummary{}
	for _, postID := range postIDs {
		for key := range r.s.likes {
			if key[0] == postID {
				if summary, ok := r.s.userSummary(key[1]); ok {
					result[postID] = append(result[postID], summary)
				}
			}
		}
	}
	return result, nil
}

// ---- CommentRepository ----

type memCommentRepo struct{ s *memStore }

func (r *memCommentRepo) Create(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCommentID++
	comment := &model.Comment{
		ID:        s.nextCommentID,
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: s.tick(),
	}
	s.comments[comment.ID] = comment
	s.posts[postID].CommentCount++
	copied := *comment
	return &copied, nil
}

func (r *memCommentRepo) Delete(ctx context.Context, postID, commentID, authorID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[commentID]
	if !ok || c.PostID != postID {
		return model.ErrCommentNotFound
	}
	if c.AuthorID != authorID {
		return model.ErrNotCommentOwner
	}
	delete(r.s.comments, commentID)
	r.s.posts[postID].CommentCount--
	return nil
}

func (r *memCommentRepo) GetByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := map[int64][]model.Comment{}
	for _, postID := range postIDs {
		var comments []model.Comment
		for _, c := range r.s.comments {
			if c.PostID == postID {
				copied := *c
				if summary, ok := r.s.userSummary(c.AuthorID); ok {
					copied.Author = &summary
				}
				comments = append(comments, copied)
			}
		}
		sort.Slice(comments, func(i, j int) bool {
			return comments[i].ID < comments[j].ID
		})
		if comments != nil {
			result[postID] = comments
		}
	}
	return result, nil
}
