package handlers

import (
	"github.com/gofiber/fiber/v2"

	"waugzee/internal/app"
	"waugzee/internal/jobs"
	"waugzee/internal/logger"
)

// AdminHandler exposes the internal operator surface the spec calls out as
// "examples, not exhaustive" (§ Internal admin surface): job-queue
// observability, a manual bulk-refresh trigger, and UI-driven single-entity
// fetch triggers, all gated behind the admin JWT.
type AdminHandler struct {
	Handler
	app *app.App
}

func NewAdminHandler(a *app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		app: a,
		Handler: Handler{
			log:        logger.New("handlers").File("admin_handler"),
			router:     router,
			middleware: a.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/", h.middleware.RequireAdmin())

	admin.Get("/stats", h.getStats)
	admin.Get("/config", h.getConfig)
	admin.Post("/config", h.updateConfig)

	admin.Get("/jobs/stats", h.getJobStats)
	admin.Get("/jobs/recent", h.getRecentJobs)
	admin.Post("/jobs/clear", h.clearJobs)

	admin.Post("/refresh/all", h.triggerBulkRefresh)

	admin.Post("/ui/fetch-artist/:id", h.fetchArtist)
	admin.Post("/ui/fetch-album/:id", h.fetchAlbum)
}

func (h *AdminHandler) getStats(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("admin_handler").Function("getStats")

	artistCount, err := h.app.Store.Artist.Count(c.Context(), h.app.Store.DB())
	if err != nil {
		_ = log.Err("failed to count artists", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load stats"})
	}

	jobStats, err := h.app.JobQueue.Stats(c.Context())
	if err != nil {
		_ = log.Err("failed to load job stats", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load stats"})
	}

	latestRun, err := h.app.Store.BulkRefresh.Latest(c.Context(), h.app.Store.DB())
	if err != nil {
		_ = log.Err("failed to load latest bulk refresh", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"artistCount":     artistCount,
		"jobs":            jobStats,
		"lastBulkRefresh": latestRun,
	})
}

func (h *AdminHandler) getConfig(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"cacheEnabled":           h.app.Config.CacheEnabled,
		"cacheTTLSeconds":        h.app.Config.CacheTTLSeconds,
		"artistTTLDays":          h.app.Config.ArtistTTLDays,
		"bulkRefreshDays":        h.app.Config.BulkRefreshDays,
		"canonicalMinIntervalMS": h.app.Config.CanonicalMinIntervalMS,
	})
}

// updateConfig is a placeholder for the UI's config-editing surface — the
// runtime config is process-environment-sourced (config.New), so this
// endpoint reports the live values rather than mutating them in place.
func (h *AdminHandler) updateConfig(c *fiber.Ctx) error {
	return h.getConfig(c)
}

func (h *AdminHandler) getJobStats(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("admin_handler").Function("getJobStats")

	stats, err := h.app.JobQueue.Stats(c.Context())
	if err != nil {
		_ = log.Err("failed to load job stats", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load job stats"})
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *AdminHandler) getRecentJobs(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("admin_handler").Function("getRecentJobs")

	limit := c.QueryInt("limit", 50)
	jobs, err := h.app.JobQueue.Recent(c.Context(), limit)
	if err != nil {
		_ = log.Err("failed to load recent jobs", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load recent jobs"})
	}
	return c.Status(fiber.StatusOK).JSON(jobs)
}

func (h *AdminHandler) clearJobs(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("admin_handler").Function("clearJobs")

	if err := h.app.JobQueue.Clear(c.Context()); err != nil {
		_ = log.Err("failed to clear jobs", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear jobs"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "job queue cleared"})
}

func (h *AdminHandler) triggerBulkRefresh(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("admin_handler").Function("triggerBulkRefresh")

	if err := jobs.TriggerBulkRefresh(c.Context(), h.app.Store, h.app.JobQueue, h.app.EventBus); err != nil {
		_ = log.Err("failed to trigger bulk refresh", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to trigger bulk refresh"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "bulk refresh triggered"})
}

func (h *AdminHandler) fetchArtist(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("admin_handler").Function("fetchArtist")

	id := c.Params("id")
	artist, err := h.app.Orchestrator.EnsureArtist(c.Context(), id)
	if err != nil {
		_ = log.Err("failed to fetch artist", err, "artistID", id)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch artist"})
	}
	return c.Status(fiber.StatusOK).JSON(artist)
}

func (h *AdminHandler) fetchAlbum(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("admin_handler").Function("fetchAlbum")

	id := c.Params("id")
	album, err := h.app.Orchestrator.EnsureAlbum(c.Context(), id)
	if err != nil {
		_ = log.Err("failed to fetch album", err, "releaseGroupID", id)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch album"})
	}
	return c.Status(fiber.StatusOK).JSON(album)
}
