// middleware/auth.go
package middleware

import (
	"errors"
	"log/slog"

	"eventhub/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	sessionKey  = "session"
	tokenKey    = "token"
	TokenCookie = "token"
)

// Auth restores sessions from bearer tokens.
type Auth struct {
	sessions *session.Manager
}

func NewAuth(sessions *session.Manager) *Auth {
	return &Auth{sessions: sessions}
}

// tokenFrom reads the Authorization header, then falls back to the token
// cookie and the token query parameter (browsers cannot set headers on a
// websocket handshake).
func tokenFrom(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		return session.TokenFromHeader(authHeader)
	}
	if token := c.Cookies(TokenCookie); token != "" {
		return token
	}
	return c.Query("token")
}

func (a *Auth) restore(c *fiber.Ctx) (*session.Session, error) {
	token := tokenFrom(c)
	if token == "" {
		return nil, session.ErrInvalidToken
	}
	sess, err := a.sessions.Restore(c.UserContext(), token)
	if err != nil {
		return nil, err
	}

	c.Locals(sessionKey, sess)
	c.Locals(tokenKey, token)
	c.Locals("userId", sess.UserID)
	c.Locals("username", sess.Username)
	return sess, nil
}

// Required rejects requests without a valid session.
func (a *Auth) Required(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" && c.Cookies(TokenCookie) == "" && c.Query("token") == "" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing authorization header"})
	}

	if _, err := a.restore(c); err != nil {
		if !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrRevoked) {
			slog.Error("session restore failed", "error", err)
		}
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
	}
	return c.Next()
}

// Optional restores a session when a valid token is present and treats the
// visitor as anonymous otherwise.
func (a *Auth) Optional(c *fiber.Ctx) error {
	if _, err := a.restore(c); err != nil && !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrRevoked) {
		slog.Warn("session restore failed, continuing anonymously", "error", err)
	}
	return c.Next()
}

// Admin must run after Required.
func (a *Auth) Admin(c *fiber.Ctx) error {
	sess := CurrentSession(c)
	if sess == nil || !sess.IsAdmin {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Access denied. Admin privileges required."})
	}
	return c.Next()
}

// CurrentSession returns the request's session, nil when anonymous.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionKey).(*session.Session)
	return sess
}

// CurrentToken returns the raw token the session was restored from.
func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return uuid.Nil, fiber.NewError(401, "User not authenticated")
	}
	return id, nil
}

func GetUsername(c *fiber.Ctx) (string, error) {
	name, ok := c.Locals("username").(string)
	if !ok {
		return "", fiber.NewError(401, "User not authenticated")
	}
	return name, nil
}
