package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"minigram/internal/httputil"
	"minigram/internal/model"
	"minigram/internal/service"
	"minigram/internal/transport/http/middleware"
)

// PostHandler serves post CRUD, feeds, likes and comments.
type PostHandler struct {
	posts *service.PostService
	feed  *service.FeedService
}

func NewPostHandler(posts *service.PostService, feed *service.FeedService) *PostHandler {
	return &PostHandler{
		posts: posts,
		feed:  feed,
	}
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.posts.Create(r.Context(), current.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCaptionRequired), errors.Is(err, model.ErrImageURLRequired):
			httputil.WriteBadRequest(w, "Caption and image URL are required")
		case errors.Is(err, model.ErrCaptionTooLong):
			httputil.WriteBadRequest(w, "Caption is too long")
		default:
			log.Printf("[PostHandler] Create failed for user=%d: %v", current.ID, err)
			httputil.WriteInternalError(w, "Error creating post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Post created successfully", httputil.M{"post": post})
}

// List handles GET /api/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	result, err := h.feed.ListAll(r.Context(), viewerID(r), page, limit)
	if err != nil {
		log.Printf("[PostHandler] List failed: %v", err)
		httputil.WriteInternalError(w, "Error fetching posts")
		return
	}

	writePage(w, result)
}

// Feed handles GET /api/posts/feed
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	page, limit := parsePagination(r)

	result, err := h.feed.ListFollowing(r.Context(), current.ID, page, limit)
	if err != nil {
		log.Printf("[PostHandler] Feed failed for user=%d: %v", current.ID, err)
		httputil.WriteInternalError(w, "Error fetching feed")
		return
	}

	writePage(w, result)
}

// ListByUser handles GET /api/posts/user/{userId}
func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	authorID, err := parseIDParam(r, "userId")
	if err != nil {
		httputil.WriteBadRequest(w, "User ID is required")
		return
	}
	page, limit := parsePagination(r)

	result, err := h.feed.ListByAuthor(r.Context(), viewerID(r), authorID, page, limit)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[PostHandler] ListByUser failed for author=%d: %v", authorID, err)
		httputil.WriteInternalError(w, "Error fetching user posts")
		return
	}

	writePage(w, result)
}

// SearchByTag handles GET /api/posts/search/tag?tag=...
func (h *PostHandler) SearchByTag(w http.ResponseWriter, r *http.Request) {
	tag := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag")))
	if tag == "" {
		httputil.WriteBadRequest(w, "Tag is required")
		return
	}
	page, limit := parsePagination(r)

	result, err := h.feed.ListByTag(r.Context(), viewerID(r), tag, page, limit)
	if err != nil {
		log.Printf("[PostHandler] SearchByTag failed for tag=%q: %v", tag, err)
		httputil.WriteInternalError(w, "Error searching posts")
		return
	}

	writePage(w, result)
}

// GetByID handles GET /api/posts/{postId}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	post, err := h.feed.GetByID(r.Context(), viewerID(r), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[PostHandler] GetByID failed for post=%d: %v", postID, err)
		httputil.WriteInternalError(w, "Error fetching post")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{"post": post})
}

// Update handles PUT /api/posts/{postId}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	var req model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.posts.Update(r.Context(), postID, current.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "Not authorized to update this post")
		case errors.Is(err, model.ErrCaptionRequired):
			httputil.WriteBadRequest(w, "Caption cannot be empty")
		case errors.Is(err, model.ErrCaptionTooLong):
			httputil.WriteBadRequest(w, "Caption is too long")
		default:
			log.Printf("[PostHandler] Update failed for post=%d: %v", postID, err)
			httputil.WriteInternalError(w, "Error updating post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Post updated successfully", httputil.M{"post": post})
}

// Delete handles DELETE /api/posts/{postId}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	if err := h.posts.Delete(r.Context(), postID, current.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "Not authorized to delete this post")
		default:
			log.Printf("[PostHandler] Delete failed for post=%d: %v", postID, err)
			httputil.WriteInternalError(w, "Error deleting post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Post deleted successfully", nil)
}

// Like handles POST /api/posts/{postId}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	if err := h.posts.Like(r.Context(), postID, current.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteBadRequest(w, "You already liked this post")
		default:
			log.Printf("[PostHandler] Like failed for post=%d user=%d: %v", postID, current.ID, err)
			httputil.WriteInternalError(w, "Error liking post")
		}
		return
	}

	h.respondWithPost(w, r, postID, current.ID, "Post liked successfully", "Error liking post")
}

// Unlike handles DELETE /api/posts/{postId}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	if err := h.posts.Unlike(r.Context(), postID, current.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteBadRequest(w, "You haven't liked this post")
		default:
			log.Printf("[PostHandler] Unlike failed for post=%d user=%d: %v", postID, current.ID, err)
			httputil.WriteInternalError(w, "Error unliking post")
		}
		return
	}

	h.respondWithPost(w, r, postID, current.ID, "Post unliked successfully", "Error unliking post")
}

// AddComment handles POST /api/posts/{postId}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if _, err := h.posts.AddComment(r.Context(), postID, current.ID, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentTextRequired):
			httputil.WriteBadRequest(w, "Comment text is required")
		case errors.Is(err, model.ErrCommentTooLong):
			httputil.WriteBadRequest(w, "Comment is too long")
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		default:
			log.Printf("[PostHandler] AddComment failed for post=%d user=%d: %v", postID, current.ID, err)
			httputil.WriteInternalError(w, "Error adding comment")
		}
		return
	}

	post, err := h.feed.GetByID(r.Context(), current.ID, postID)
	if err != nil {
		log.Printf("[PostHandler] Failed to reload post=%d: %v", postID, err)
		httputil.WriteInternalError(w, "Error adding comment")
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Comment added successfully", httputil.M{"post": post})
}

// DeleteComment handles DELETE /api/posts/{postId}/comments/{commentId}
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}
	commentID, err := parseIDParam(r, "commentId")
	if err != nil {
		httputil.WriteNotFound(w, "Comment not found")
		return
	}

	if err := h.posts.DeleteComment(r.Context(), postID, commentID, current.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "Not authorized to delete this comment")
		default:
			log.Printf("[PostHandler] DeleteComment failed for post=%d comment=%d: %v", postID, commentID, err)
			httputil.WriteInternalError(w, "Error deleting comment")
		}
		return
	}

	h.respondWithPost(w, r, postID, current.ID, "Comment deleted successfully", "Error deleting comment")
}

// respondWithPost reloads the expanded post after a mutation, matching
// what clients render from.
func (h *PostHandler) respondWithPost(w http.ResponseWriter, r *http.Request, postID, viewerID int64, message, failMessage string) {
	post, err := h.feed.GetByID(r.Context(), viewerID, postID)
	if err != nil {
		log.Printf("[PostHandler] Failed to reload post=%d: %v", postID, err)
		httputil.WriteInternalError(w, failMessage)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, message, httputil.M{"post": post})
}

func writePage(w http.ResponseWriter, page *model.PostPage) {
	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"posts":      page.Posts,
		"pagination": page.Pagination,
	})
}

// viewerID returns the authenticated user's ID, or 0 on public routes.
func viewerID(r *http.Request) int64 {
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		return user.ID
	}
	return 0
}

func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
