package handlers

import (
	"runtime/debug"

	"app/database"

	"github.com/gofiber/fiber/v2"
)

// HandleHealthCheck verifies the database is reachable.
// GET /api/v1/health
func HandleHealthCheck(c *fiber.Ctx) error {
	if err := database.GetDB().Ping(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database ping failed: " + err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "ok"})
}

// HandleVersion exposes the build information of the running binary.
// GET /version
func HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}
