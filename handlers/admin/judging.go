// handlers/admin/judging.go - Judging queue, scoring and task activation
package admin

import (
	"errors"
	"log/slog"

	"eventhub/middleware"
	"eventhub/services"
	"eventhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler serves the organizer endpoints. Routes are mounted behind auth;
// admin-only routes additionally behind Auth.Admin.
type Handler struct {
	store  *services.Store
	logger *slog.Logger
}

func New(store *services.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

type ScoreRequest struct {
	Score *int `json:"score" validate:"required"`
}

type ActivateRequest struct {
	Active *bool `json:"active"`
}

// canJudge allows admins and the workshop's judges.
func (h *Handler) canJudge(c *fiber.Ctx, workshopID uuid.UUID) (bool, error) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return false, nil
	}
	if sess.IsAdmin {
		return true, nil
	}
	return h.store.IsJudge(c.UserContext(), sess.UserID, workshopID)
}

// PendingSubmissions lists a workshop's submissions awaiting a score
func (h *Handler) PendingSubmissions(c *fiber.Ctx) error {
	workshopID, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	ok, err := h.canJudge(c, workshopID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.JSONError(c, 403, "Access denied. Judge privileges required.")
	}

	subs, err := h.store.PendingSubmissions(c.UserContext(), workshopID)
	if err != nil {
		h.logger.Error("Error fetching judging queue", "workshop_id", workshopID, "error", err)
		return utils.JSONError(c, 500, "Failed to fetch submissions")
	}
	return utils.JSONSuccess(c, fiber.Map{"submissions": subs})
}

// ScoreSubmission completes a submission with a score and refreshes the
// workshop leaderboard
func (h *Handler) ScoreSubmission(c *fiber.Ctx) error {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req ScoreRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	sub, err := h.store.GetSubmission(ctx, id)
	if errors.Is(err, services.ErrNotFound) {
		return utils.JSONError(c, 404, "Submission not found")
	}
	if err != nil {
		return err
	}
	task, err := h.store.GetTask(ctx, sub.TaskID)
	if err != nil {
		return err
	}

	ok, err := h.canJudge(c, task.WorkshopID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.JSONError(c, 403, "Access denied. Judge privileges required.")
	}

	scored, _, err := h.store.ScoreSubmission(ctx, id, *req.Score)
	switch {
	case errors.Is(err, services.ErrInvalidScore):
		return utils.JSONError(c, 400, "Score must be between 0 and the task's points")
	case err != nil && scored == nil:
		h.logger.Error("Error scoring submission", "submission_id", id, "error", err)
		return utils.JSONError(c, 500, "Failed to score submission")
	case err != nil:
		// The score is stored; only the leaderboard refresh failed
		h.logger.Error("Error recomputing leaderboard", "workshop_id", task.WorkshopID, "error", err)
	}

	h.logger.Info("submission scored", "submission_id", id, "score", *req.Score)
	return utils.JSONSuccess(c, fiber.Map{"submission": scored})
}

// SetTaskActive locks or unlocks a task. Omitting "active" toggles it.
func (h *Handler) SetTaskActive(c *fiber.Ctx) error {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req ActivateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, 400, "Invalid request body")
		}
	}

	ctx := c.UserContext()
	task, err := h.store.GetTask(ctx, id)
	if errors.Is(err, services.ErrNotFound) {
		return utils.JSONError(c, 404, "Task not found")
	}
	if err != nil {
		return err
	}

	active := !task.IsActive
	if req.Active != nil {
		active = *req.Active
	}

	updated, err := h.store.SetTaskActive(ctx, id, active)
	if err != nil {
		h.logger.Error("Error updating task", "task_id", id, "error", err)
		return utils.JSONError(c, 500, "Failed to update task")
	}
	return utils.JSONSuccess(c, fiber.Map{"task": updated})
}
