package handlers

import (
	"errors"
	"log"

	"loyalty-mission-system/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a domain error to its HTTP status 1:1; anything else is
// an unexpected persistence failure, logged and surfaced as 500.
func respondError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.Status(ae.Status).JSON(ae)
	}
	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
