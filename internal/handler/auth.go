package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"minigram/internal/httputil"
	"minigram/internal/model"
	"minigram/internal/service"
	"minigram/internal/transport/http/middleware"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// AuthHandler serves registration, login, sessions, profiles and the
// follow graph.
type AuthHandler struct {
	users    *service.UserService
	follows  *service.FollowService
	sessions *service.SessionService
}

func NewAuthHandler(users *service.UserService, follows *service.FollowService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{
		users:    users,
		follows:  follows,
		sessions: sessions,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" || req.PasswordConfirm == "" {
		httputil.WriteBadRequest(w, "All fields are required")
		return
	}
	if req.Password != req.PasswordConfirm {
		httputil.WriteBadRequest(w, "Passwords do not match")
		return
	}
	if len(req.Username) < model.UsernameMinLength || len(req.Username) > model.UsernameMaxLength {
		httputil.WriteBadRequest(w, fmt.Sprintf("Username must be between %d and %d characters", model.UsernameMinLength, model.UsernameMaxLength))
		return
	}
	if !usernamePattern.MatchString(req.Username) {
		httputil.WriteBadRequest(w, "Username may only contain letters, numbers and underscores")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httputil.WriteBadRequest(w, "Invalid email format")
		return
	}
	if len(req.Password) < model.PasswordMinLength {
		httputil.WriteBadRequest(w, fmt.Sprintf("Password must be at least %d characters", model.PasswordMinLength))
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteBadRequest(w, "Email already registered")
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteBadRequest(w, "Username already taken")
		default:
			log.Printf("[AuthHandler] Register failed: %v", err)
			httputil.WriteInternalError(w, "Error registering user")
		}
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		log.Printf("[AuthHandler] Failed to issue session for user=%d: %v", user.ID, err)
		httputil.WriteInternalError(w, "Error registering user")
		return
	}
	h.sessions.SetCookie(w, token)

	httputil.WriteSuccess(w, http.StatusCreated, "User registered successfully", httputil.M{"user": user})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Email and password are required")
		return
	}

	user, err := h.users.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		log.Printf("[AuthHandler] Login failed: %v", err)
		httputil.WriteInternalError(w, "Error logging in")
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		log.Printf("[AuthHandler] Failed to issue session for user=%d: %v", user.ID, err)
		httputil.WriteInternalError(w, "Error logging in")
		return
	}
	h.sessions.SetCookie(w, token)

	httputil.WriteSuccess(w, http.StatusOK, "Logged in successfully", httputil.M{"user": user})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	httputil.WriteSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.users.GetByID(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[AuthHandler] Failed to fetch user=%d: %v", current.ID, err)
		httputil.WriteInternalError(w, "Error fetching user")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "User fetched successfully", httputil.M{"user": user})
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), current.ID, &req)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[AuthHandler] Failed to update profile for user=%d: %v", current.ID, err)
		httputil.WriteInternalError(w, "Error updating profile")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Profile updated successfully", httputil.M{"user": user})
}

// Follow handles POST /api/auth/follow/{userId}
func (h *AuthHandler) Follow(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	targetID, err := parseIDParam(r, "userId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user id")
		return
	}

	if err := h.follows.Follow(r.Context(), current.ID, targetID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, "You cannot follow yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteBadRequest(w, "You are already following this user")
		default:
			log.Printf("[AuthHandler] Follow failed user=%d target=%d: %v", current.ID, targetID, err)
			httputil.WriteInternalError(w, "Error following user")
		}
		return
	}

	user, err := h.users.GetByID(r.Context(), current.ID)
	if err != nil {
		log.Printf("[AuthHandler] Failed to reload user=%d: %v", current.ID, err)
		httputil.WriteInternalError(w, "Error following user")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "User followed successfully", httputil.M{"user": user})
}

// Unfollow handles DELETE /api/auth/unfollow/{userId}
func (h *AuthHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	targetID, err := parseIDParam(r, "userId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user id")
		return
	}

	if err := h.follows.Unfollow(r.Context(), current.ID, targetID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, "You cannot unfollow yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteBadRequest(w, "You are not following this user")
		default:
			log.Printf("[AuthHandler] Unfollow failed user=%d target=%d: %v", current.ID, targetID, err)
			httputil.WriteInternalError(w, "Error unfollowing user")
		}
		return
	}

	user, err := h.users.GetByID(r.Context(), current.ID)
	if err != nil {
		log.Printf("[AuthHandler] Failed to reload user=%d: %v", current.ID, err)
		httputil.WriteInternalError(w, "Error unfollowing user")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "User unfollowed successfully", httputil.M{"user": user})
}

// GetUserByUsername handles GET /api/auth/user/{username}
func (h *AuthHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[AuthHandler] Failed to fetch user %q: %v", username, err)
		httputil.WriteInternalError(w, "Error fetching user")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{"user": user})
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}
