// handlers/gallery.go
package handlers

import (
	"eventhub/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetGallery(c *fiber.Ctx) error {
	return utils.JSONSuccess(c, fiber.Map{"sections": h.gallery.Sections()})
}

// DownloadGallerySection lists every image of a section for the client to
// open one by one.
func (h *Handler) DownloadGallerySection(c *fiber.Ctx) error {
	urls, ok := h.gallery.DownloadAll(c.Params("section"))
	if !ok {
		return utils.JSONError(c, fiber.StatusNotFound, "Gallery section not found")
	}
	return utils.JSONSuccess(c, fiber.Map{"urls": urls})
}
