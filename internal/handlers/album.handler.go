package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"waugzee/internal/app"
	"waugzee/internal/logger"
	"waugzee/internal/providererr"
)

type AlbumHandler struct {
	Handler
	app *app.App
}

func NewAlbumHandler(a *app.App, router fiber.Router) *AlbumHandler {
	return &AlbumHandler{
		app: a,
		Handler: Handler{
			log:    logger.New("handlers").File("album_handler"),
			router: router,
		},
	}
}

func (h *AlbumHandler) Register() {
	h.router.Get("/album/:id", h.getAlbum)
}

// getAlbum implements GET /album/{id} (a release group id).
func (h *AlbumHandler) getAlbum(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("album_handler").Function("getAlbum")

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "album id is required"})
	}

	album, err := h.app.Orchestrator.EnsureAlbum(c.Context(), id)
	if err != nil {
		if errors.Is(err, providererr.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "album not found"})
		}
		_ = log.Err("failed to ensure album", err, "releaseGroupID", id)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch album"})
	}

	return c.Status(fiber.StatusOK).JSON(album)
}
