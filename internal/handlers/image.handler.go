package handlers

import (
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"waugzee/internal/app"
	"waugzee/internal/logger"
	"waugzee/internal/models"
)

// ImageHandler serves locally cached artwork binaries at the URL shape
// resolveImageURL builds: {serverURL}/images/{entityType}/{entityID}/{coverType}.
// Uncached images are never served from here — the formatter points the
// consumer straight at the upstream URL until the artwork-binary pool has
// downloaded a local copy.
type ImageHandler struct {
	Handler
	app *app.App
}

func NewImageHandler(a *app.App, router fiber.Router) *ImageHandler {
	return &ImageHandler{
		app: a,
		Handler: Handler{
			log:    logger.New("handlers").File("image_handler"),
			router: router,
		},
	}
}

func (h *ImageHandler) Register() {
	h.router.Get("/images/:entityType/:entityId/:coverType", h.serveImage)
}

func (h *ImageHandler) serveImage(c *fiber.Ctx) error {
	log := logger.NewWithContext(c.Context(), "handlers").File("image_handler").Function("serveImage")

	entityType := models.EntityType(c.Params("entityType"))
	entityID := c.Params("entityId")
	coverType := models.CoverType(capitalize(c.Params("coverType")))

	images, err := h.app.Store.Image.ForEntity(c.Context(), h.app.Store.DB(), entityType, entityID)
	if err != nil {
		_ = log.Err("failed to load image", err, "entityID", entityID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load image"})
	}

	for _, img := range images {
		if img.CoverType == coverType && img.Cached && img.LocalPath != nil {
			return c.SendFile(*img.LocalPath)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not cached locally"})
}

// capitalize renders "poster" as "Poster", matching the CoverType enum's
// PascalCase values; the route param arrives lowercase.
func capitalize(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
