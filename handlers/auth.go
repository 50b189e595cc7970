// handlers/auth.go - Sign up, sign in, sign out

package handlers

import (
	"context"
	"errors"
	"time"

	"eventhub/gate"
	"eventhub/middleware"
	"eventhub/models"
	"eventhub/services"
	"eventhub/session"
	"eventhub/utils"
	"eventhub/views"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=100"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    UserInfo    `json:"user,omitempty"`
	Resumed *ResumeInfo `json:"resumed,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ResumeInfo reports the protected action replayed after sign-in.
type ResumeInfo struct {
	Action  gate.Action            `json:"action"`
	Catalog *views.CatalogSnapshot `json:"catalog,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func userInfo(u *models.User) UserInfo {
	email := ""
	if u.Email != nil {
		email = *u.Email
	}
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates a new user account
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	user, err := h.store.CreateUser(c.UserContext(), req.Username, req.Email, req.Password, req.FullName)
	if errors.Is(err, services.ErrUsernameTaken) {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Username already taken"})
	}
	if err != nil {
		h.logger.Error("Error creating account", "username", req.Username, "error", err)
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to create account"})
	}

	return h.signedIn(c, user)
}

// Login authenticates a registered user
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Username and password required"})
	}

	user, err := h.store.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
	}

	return h.signedIn(c, user)
}

// signedIn issues the token and replays the client's held action, if any.
func (h *Handler) signedIn(c *fiber.Ctx, user *models.User) error {
	token, sess, err := h.sessions.Issue(*user)
	if err != nil {
		h.logger.Error("Error issuing token", "user_id", user.ID, "error", err)
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
		Resumed: h.resumeGate(c.UserContext(), middleware.GetClientID(c), sess),
	})
}

func (h *Handler) resumeGate(ctx context.Context, clientID string, sess *session.Session) *ResumeInfo {
	if clientID == "" {
		return nil
	}
	g, ok := h.gates.Lookup(clientID)
	if !ok {
		return nil
	}

	var catalog *views.CatalogSnapshot
	action, ran, err := g.Complete(ctx, map[gate.Kind]gate.Handler{
		gate.KindRegister: func(ctx context.Context, a gate.Action) error {
			workshopID, err := uuid.Parse(a.Payload)
			if err != nil {
				return err
			}
			view := views.NewCatalogView(h.store, sess, h.logger)
			view.Mount(ctx)
			view.Register(ctx, workshopID)
			snap := view.Snapshot()
			catalog = &snap
			return nil
		},
	})
	if !ran && err == nil {
		return nil
	}

	info := &ResumeInfo{Action: action, Catalog: catalog}
	if err != nil {
		h.logger.Warn("Held action failed after sign-in", "kind", action.Kind, "error", err)
		info.Error = "Failed to resume action"
	}
	return info
}

// Logout revokes the current token
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.SignOut(c.UserContext(), middleware.CurrentToken(c)); err != nil {
		h.logger.Error("Error signing out", "error", err)
		return utils.JSONError(c, 500, "Failed to sign out")
	}
	c.ClearCookie(middleware.TokenCookie)
	return utils.JSONSuccess(c, fiber.Map{"message": "Signed out"})
}

// Me returns the signed-in user's profile
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.store.GetUser(c.UserContext(), userID)
	if errors.Is(err, services.ErrNotFound) {
		return utils.JSONError(c, 404, "User not found")
	}
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, fiber.Map{"user": userInfo(user)})
}
