package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"minigram/internal/config"
	"minigram/internal/model"
	"minigram/internal/repository"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "token"

// ErrUnauthenticated covers every session failure: missing, malformed,
// expired, bad signature, or a token referencing a deleted user. Callers
// must not distinguish between the cases (uniform 401).
var ErrUnauthenticated = errors.New("unauthenticated")

// SessionService issues and verifies the signed cookie token that
// identifies a user across requests.
type SessionService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	secure   bool
}

func NewSessionService(userRepo repository.UserRepository, cfg *config.Config) *SessionService {
	return &SessionService{
		userRepo: userRepo,
		secret:   []byte(cfg.JWTSecret),
		ttl:      time.Duration(cfg.SessionTTLDays) * 24 * time.Hour,
		secure:   cfg.IsProduction(),
	}
}

// Issue produces a signed, expiring token encoding the user identifier.
func (s *SessionService) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Resolve verifies signature and expiry and loads the referenced user.
// Every failure mode collapses into ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, int64(userIDFloat))
	if err != nil {
		// The user may have been removed since the token was issued.
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// SetCookie writes the session cookie onto the response.
func (s *SessionService) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie instructs the client to drop the session cookie.
func (s *SessionService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
