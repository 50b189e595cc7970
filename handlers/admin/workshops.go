package admin

import (
	"errors"

	"eventhub/models"
	"eventhub/services"
	"eventhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateWorkshopRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
	BannerURL   *string `json:"banner_url" validate:"omitempty,url"`
	Duration    *string `json:"duration" validate:"omitempty,max=50"`
}

type CreateTaskRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	TaskOrder    int    `json:"task_order" validate:"min=0"`
	Points       int    `json:"points" validate:"min=0"`
	TimerMinutes *int   `json:"timer_minutes" validate:"omitempty,min=1"`
}

type CreateGroupRequest struct {
	GroupName string `json:"group_name" validate:"required,max=100"`
	GroupCode string `json:"group_code" validate:"omitempty,alphanum,max=20"`
}

type AddJudgeRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

func (h *Handler) CreateWorkshop(c *fiber.Ctx) error {
	var req CreateWorkshopRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	w := &models.Workshop{
		Title:       req.Title,
		Description: req.Description,
		BannerURL:   req.BannerURL,
		Duration:    req.Duration,
	}
	if err := h.store.CreateWorkshop(c.UserContext(), w); err != nil {
		h.logger.Error("Error creating workshop", "error", err)
		return utils.JSONError(c, 500, "Failed to create workshop")
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "workshop": w})
}

// requireWorkshop parses :id and checks the workshop exists.
func (h *Handler) requireWorkshop(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := h.store.GetWorkshop(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return uuid.Nil, fiber.NewError(404, "Workshop not found")
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	workshopID, err := h.requireWorkshop(c)
	if err != nil {
		return err
	}
	var req CreateTaskRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	task := &models.Task{
		WorkshopID:   workshopID,
		Title:        req.Title,
		Description:  req.Description,
		TaskOrder:    req.TaskOrder,
		Points:       req.Points,
		TimerMinutes: req.TimerMinutes,
	}
	if err := h.store.CreateTask(c.UserContext(), task); err != nil {
		h.logger.Error("Error creating task", "workshop_id", workshopID, "error", err)
		return utils.JSONError(c, 500, "Failed to create task")
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "task": task})
}

func (h *Handler) ListGroups(c *fiber.Ctx) error {
	workshopID, err := h.requireWorkshop(c)
	if err != nil {
		return err
	}
	groups, err := h.store.ListGroups(c.UserContext(), workshopID)
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, fiber.Map{"groups": groups})
}

// CreateGroup adds a group; an empty code gets a generated one.
func (h *Handler) CreateGroup(c *fiber.Ctx) error {
	workshopID, err := h.requireWorkshop(c)
	if err != nil {
		return err
	}
	var req CreateGroupRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	group, err := h.store.CreateGroup(c.UserContext(), workshopID, req.GroupName, req.GroupCode)
	if err != nil {
		h.logger.Error("Error creating group", "workshop_id", workshopID, "error", err)
		return utils.JSONError(c, 500, "Failed to create group")
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "group": group})
}

func (h *Handler) AddJudge(c *fiber.Ctx) error {
	workshopID, err := h.requireWorkshop(c)
	if err != nil {
		return err
	}
	var req AddJudgeRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}
	userID := uuid.MustParse(req.UserID)

	ctx := c.UserContext()
	if _, err := h.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.JSONError(c, 404, "User not found")
		}
		return err
	}
	if err := h.store.AddJudge(ctx, workshopID, userID); err != nil {
		h.logger.Error("Error adding judge", "workshop_id", workshopID, "error", err)
		return utils.JSONError(c, 500, "Failed to add judge")
	}
	return c.Status(201).JSON(fiber.Map{"success": true})
}
