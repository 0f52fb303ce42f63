package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"waugzee/internal/app"
	"waugzee/internal/logger"
)

const defaultSearchLimit = 25

type SearchHandler struct {
	Handler
	app *app.App
}

func NewSearchHandler(a *app.App, router fiber.Router) *SearchHandler {
	return &SearchHandler{
		app: a,
		Handler: Handler{
			log:    logger.New("handlers").File("search_handler"),
			router: router,
		},
	}
}

func (h *SearchHandler) Register() {
	h.router.Get("/search", h.search)
}

// search implements GET /search?query=...&limit=...: a direct pass-through
// to the canonical provider, nothing stored or cached locally.
func (h *SearchHandler) search(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("search_handler").Function("search")

	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	results, err := h.app.Orchestrator.SearchArtists(c.Context(), query, limit)
	if err != nil {
		_ = log.Err("search failed", err, "query", query)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upstream search failed"})
	}

	return c.Status(fiber.StatusOK).JSON(results)
}
