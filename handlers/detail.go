// handlers/detail.go - Workshop detail view endpoints
package handlers

import (
	"context"

	"eventhub/middleware"
	"eventhub/utils"
	"eventhub/views"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type JoinRequest struct {
	Code string `json:"code"`
}

type SubmitRequest struct {
	Text     string   `json:"text"`
	FileURLs []string `json:"file_urls"`
}

// withDetail mounts a detail view for the request, runs act on it and
// responds with the resulting snapshot.
func (h *Handler) withDetail(c *fiber.Ctx, act func(ctx context.Context, v *views.DetailView) error) error {
	workshopID, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	view := views.NewDetailView(h.store, middleware.CurrentSession(c), workshopID, h.logger)
	defer view.Unmount()

	view.Mount(ctx)
	if act != nil {
		if err := act(ctx, view); err != nil {
			return err
		}
	}

	snap := view.Snapshot()
	if snap.NotFound {
		return utils.JSONError(c, fiber.StatusNotFound, "Workshop not found")
	}
	return utils.JSONSuccess(c, fiber.Map{"view": snap})
}

// GetWorkshopDetail renders the detail view once
func (h *Handler) GetWorkshopDetail(c *fiber.Ctx) error {
	return h.withDetail(c, nil)
}

func (h *Handler) JoinGroup(c *fiber.Ctx) error {
	var req JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}
	return h.withDetail(c, func(ctx context.Context, v *views.DetailView) error {
		v.JoinGroup(ctx, req.Code)
		return nil
	})
}

func (h *Handler) SubmitTask(c *fiber.Ctx) error {
	taskID, err := utils.ParamUUID(c, "taskId")
	if err != nil {
		return err
	}
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}
	return h.withDetail(c, func(ctx context.Context, v *views.DetailView) error {
		v.SubmitTask(ctx, taskID, req.Text, req.FileURLs)
		return nil
	})
}

func (h *Handler) SubmitFeedback(c *fiber.Ctx) error {
	var form views.FeedbackForm
	if err := c.BodyParser(&form); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}
	return h.withDetail(c, func(ctx context.Context, v *views.DetailView) error {
		v.SubmitFeedback(ctx, form)
		return nil
	})
}

func (h *Handler) SubmitMentorship(c *fiber.Ctx) error {
	var form views.MentorshipForm
	if err := c.BodyParser(&form); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}
	return h.withDetail(c, func(ctx context.Context, v *views.DetailView) error {
		v.SubmitMentorship(ctx, form)
		return nil
	})
}

// parseTaskID is shared with the live view's message handling.
func parseTaskID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}
