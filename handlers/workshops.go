// handlers/workshops.go - Workshop catalog and gated registration
package handlers

import (
	"eventhub/gate"
	"eventhub/middleware"
	"eventhub/utils"
	"eventhub/views"

	"github.com/gofiber/fiber/v2"
)

const msgSignInToRegister = "Please sign in to register for this workshop"

// ListWorkshops returns the catalog, marking the caller's registrations
func (h *Handler) ListWorkshops(c *fiber.Ctx) error {
	view := views.NewCatalogView(h.store, middleware.CurrentSession(c), h.logger)
	view.Mount(c.UserContext())

	response := fiber.Map{"catalog": view.Snapshot()}
	if g, ok := h.gates.Lookup(middleware.GetClientID(c)); ok {
		if action, held := g.Pending(); held {
			response["pending_action"] = action
		}
	}
	return utils.JSONSuccess(c, response)
}

// RegisterWorkshop enrolls the caller. Anonymous callers get a sign-in prompt
// and the registration is held until they sign in.
func (h *Handler) RegisterWorkshop(c *fiber.Ctx) error {
	workshopID, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	sess := middleware.CurrentSession(c)
	g := h.gates.Get(middleware.GetClientID(c))

	var snap views.CatalogSnapshot
	ran, err := g.Execute(sess != nil, gate.Action{Kind: gate.KindRegister, Payload: workshopID.String()}, func() error {
		ctx := c.UserContext()
		view := views.NewCatalogView(h.store, sess, h.logger)
		view.Mount(ctx)
		view.Register(ctx, workshopID)
		snap = view.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}
	if !ran {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success":       false,
			"auth_required": true,
			"message":       msgSignInToRegister,
		})
	}
	return utils.JSONSuccess(c, fiber.Map{"catalog": snap})
}

// CancelGate drops the held action after the sign-in prompt is dismissed
func (h *Handler) CancelGate(c *fiber.Ctx) error {
	if g, ok := h.gates.Lookup(middleware.GetClientID(c)); ok {
		g.Cancel()
	}
	return utils.JSONSuccess(c, fiber.Map{"message": "Action cancelled"})
}
