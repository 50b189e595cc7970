// Package session issues and restores signed-in user sessions. Views receive
// a *Session, nil when the visitor is anonymous.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevoked      = errors.New("session signed out")
)

type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Revoker remembers signed-out token ids until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked Revoker
}

func NewManager(secret string, ttl time.Duration, revoked Revoker) *Manager {
	if revoked == nil {
		revoked = NewMemoryRevoker()
	}
	return &Manager{secret: []byte(secret), ttl: ttl, revoked: revoked}
}

// Issue signs a token for user.
func (m *Manager) Issue(user models.User) (string, *Session, error) {
	now := time.Now()
	sess := &Session{
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(m.ttl),
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"jti":      sess.TokenID,
		"iat":      now.Unix(),
		"exp":      sess.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, sess, nil
}

// Restore validates a token and rebuilds its session.
func (m *Manager) Restore(ctx context.Context, tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sess := &Session{UserID: userID}
	sess.Username, _ = claims["username"].(string)
	sess.IsAdmin, _ = claims["is_admin"].(bool)
	sess.TokenID, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}

	if sess.TokenID != "" {
		revoked, err := m.revoked.IsRevoked(ctx, sess.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return sess, nil
}

// SignOut revokes the token. Signing out an invalid token is a no-op.
func (m *Manager) SignOut(ctx context.Context, tokenString string) error {
	sess, err := m.Restore(ctx, tokenString)
	if err != nil {
		return nil
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 || sess.TokenID == "" {
		return nil
	}
	return m.revoked.Revoke(ctx, sess.TokenID, ttl)
}

// TokenFromHeader extracts the token of a "Bearer <token>" header value.
func TokenFromHeader(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
