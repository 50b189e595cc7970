// handlers/routes.go - API route table
package handlers

import (
	"time"

	"eventhub/handlers/admin"
	"eventhub/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Limiters are the rate limiters mounted on the API. Nil disables one.
type Limiters struct {
	General *middleware.RateLimiter
	Auth    *middleware.RateLimiter
}

// Mount registers every route on app.
func (h *Handler) Mount(app *fiber.App, auth *middleware.Auth, judging *admin.Handler, limits Limiters) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(middleware.Metrics())
	app.Use(middleware.ClientID(h.production))
	app.Use(middleware.RateLimit(limits.General, "Rate limit exceeded. Please try again later."))

	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(limits.Auth, "Too many authentication attempts. Please try again in 5 minutes."))
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/logout", auth.Required, h.Logout)
	authGroup.Get("/me", auth.Required, h.Me)

	// Catalog, open to anonymous visitors
	api.Get("/workshops", auth.Optional, h.ListWorkshops)
	api.Post("/workshops/:id/register", auth.Optional, h.RegisterWorkshop)
	api.Post("/gate/cancel", h.CancelGate)

	// Detail view
	workshop := api.Group("/workshops/:id")
	workshop.Get("/", auth.Required, h.GetWorkshopDetail)
	workshop.Post("/join", auth.Required, h.JoinGroup)
	workshop.Post("/tasks/:taskId/submit", auth.Required, h.SubmitTask)
	workshop.Post("/feedback", auth.Required, h.SubmitFeedback)
	workshop.Post("/mentorship", auth.Required, h.SubmitMentorship)

	// Gallery
	api.Get("/gallery", h.GetGallery)
	api.Get("/gallery/:section/download", h.DownloadGallerySection)

	// Judging is open to admins and workshop judges
	adminGroup := api.Group("/admin", auth.Required)
	adminGroup.Get("/workshops/:id/submissions", judging.PendingSubmissions)
	adminGroup.Post("/submissions/:id/score", judging.ScoreSubmission)

	adminGroup.Post("/workshops", auth.Admin, judging.CreateWorkshop)
	adminGroup.Post("/workshops/:id/tasks", auth.Admin, judging.CreateTask)
	adminGroup.Get("/workshops/:id/groups", auth.Admin, judging.ListGroups)
	adminGroup.Post("/workshops/:id/groups", auth.Admin, judging.CreateGroup)
	adminGroup.Post("/workshops/:id/judges", auth.Admin, judging.AddJudge)
	adminGroup.Put("/tasks/:id/activate", auth.Admin, judging.SetTaskActive)

	// Live detail view
	app.Get("/ws/workshops/:id", UpgradeLive, auth.Required, h.LiveWorkshop())
}

// ErrorHandler renders errors in the API envelope. Internal error messages
// are hidden in production.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		// Don't expose internal errors in production
		if production && code == 500 {
			message = "An error occurred. Please try again later."
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}
