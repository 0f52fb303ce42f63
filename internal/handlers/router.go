package handlers

import (
	"waugzee/internal/app"
	"waugzee/internal/handlers/middleware"
	"waugzee/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use("/ws", app.Middleware.RequireAdmin())
	WebSocketHandler(router, app.Websocket)
	NewImageHandler(app, router).Register()

	// Consumer-facing endpoints (artist/album/search) are top-level per the
	// compatibility contract; only the internal admin surface lives under
	// /api.
	NewArtistHandler(app, router).Register()
	NewAlbumHandler(app, router).Register()
	NewSearchHandler(app, router).Register()

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAdminHandler(app, api).Register()

	return nil
}
