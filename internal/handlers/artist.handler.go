package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"waugzee/internal/app"
	"waugzee/internal/logger"
	"waugzee/internal/providererr"
)

type ArtistHandler struct {
	Handler
	app *app.App
}

func NewArtistHandler(a *app.App, router fiber.Router) *ArtistHandler {
	return &ArtistHandler{
		app: a,
		Handler: Handler{
			log:    logger.New("handlers").File("artist_handler"),
			router: router,
		},
	}
}

func (h *ArtistHandler) Register() {
	h.router.Get("/artist/:id", h.getArtist)
}

// getArtist implements GET /artist/{id}: the read-through entry point that
// may trigger synchronous upstream traffic on a cache miss.
func (h *ArtistHandler) getArtist(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("artist_handler").Function("getArtist")

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "artist id is required"})
	}

	artist, err := h.app.Orchestrator.EnsureArtist(c.Context(), id)
	if err != nil {
		if errors.Is(err, providererr.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "artist not found"})
		}
		_ = log.Err("failed to ensure artist", err, "artistID", id)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch artist"})
	}

	return c.Status(fiber.StatusOK).JSON(artist)
}
