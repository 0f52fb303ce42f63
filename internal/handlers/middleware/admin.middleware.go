package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates the admin surface (bulk-refresh trigger, job-queue
// inspection, job-queue clear) behind the bearer JWT check. The spec's admin
// surface has no separate roles to distinguish — holding a valid token
// is sufficient, unlike the teacher's two-step auth-then-IsAdmin check.
func (m *Middleware) RequireAdmin() fiber.Handler {
	return m.RequireAdminAuth()
}
