package middleware

import (
	"errors"
	"strconv"
	"strings"

	"loyalty-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

const (
	MemberIDContextKey    = "member_id"
	MemberEmailContextKey = "member_email"
)

// RequireAuth verifies the Bearer token and binds the caller's identity into
// the request context. Handlers must take the member id from here, never from
// the client payload.
//
// AUTH001: header missing or not Bearer. AUTH002: malformed token or bad
// signature. AUTH003: expired token.
func RequireAuth(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"errorCode": "AUTH001",
				"reason":    "login required",
			})
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			code := "AUTH002"
			if errors.Is(err, services.ErrTokenExpired) {
				code = "AUTH003"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"errorCode": code,
				"reason":    err.Error(),
			})
		}

		c.Locals(MemberIDContextKey, claims.MemberID)
		c.Locals(MemberEmailContextKey, claims.Email)
		return c.Next()
	}
}

// RequireSelf guards routes whose :memberId path segment must match the
// authenticated member. AUTH005: unparseable path id. AUTH006: acting on
// another member's resource.
func RequireSelf() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pathID, err := strconv.ParseUint(c.Params("memberId"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"errorCode": "AUTH005",
				"reason":    "invalid member id in path",
			})
		}

		actorID, ok := c.Locals(MemberIDContextKey).(uint64)
		if !ok || actorID != pathID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"errorCode": "AUTH006",
				"reason":    "cannot act on another member's resource",
			})
		}
		return c.Next()
	}
}

// MemberID returns the authenticated member id bound by RequireAuth.
func MemberID(c *fiber.Ctx) uint64 {
	id, _ := c.Locals(MemberIDContextKey).(uint64)
	return id
}
