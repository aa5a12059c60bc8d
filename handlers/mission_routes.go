// handlers/mission_routes.go
package handlers

import (
	"strconv"

	"loyalty-mission-system/middleware"
	"loyalty-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, missionService *services.MissionService, tokens *services.TokenService) {
	api := app.Group("/api/v1")

	// Mission registration under a store is a merchant-side call, public
	// like the other create endpoints.
	api.Post("/stores/:storeId/missions", func(c *fiber.Ctx) error {
		storeID, err := strconv.ParseUint(c.Params("storeId"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "M001", "reason": "invalid store id"})
		}

		var req struct {
			Title       string `json:"title" validate:"required"`
			Description string `json:"description"`
			PointReward int64  `json:"point_reward" validate:"required,gte=0"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "M001", "reason": "invalid request body"})
		}
		if verr := services.ValidateStruct(req); verr != nil {
			return c.Status(verr.Status).JSON(verr)
		}

		mission, err := missionService.CreateMission(storeID, req.Title, req.Description, req.PointReward)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(mission)
	})

	api.Get("/stores/:storeId/missions", func(c *fiber.Ctx) error {
		storeID, err := strconv.ParseUint(c.Params("storeId"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "MS001", "reason": "invalid store id"})
		}
		cursor, _ := strconv.ParseUint(c.Query("cursor", "0"), 10, 64)

		missions, err := missionService.ListStoreMissions(storeID, cursor)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"missions": missions})
	})

	secured := api.Group("", middleware.RequireAuth(tokens))

	// The member id on mutation endpoints is always bound from the verified
	// token, never from the request body.
	secured.Post("/missions/:missionId/start", func(c *fiber.Ctx) error {
		missionID, err := strconv.ParseUint(c.Params("missionId"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "MS001", "reason": "invalid mission id"})
		}

		var req struct {
			Address string `json:"address" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "V001", "reason": "invalid request body"})
		}
		if verr := services.ValidateStruct(req); verr != nil {
			return c.Status(verr.Status).JSON(verr)
		}

		participation, err := missionService.Start(middleware.MemberID(c), missionID, req.Address)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(participation)
	})

	owner := secured.Group("/members/:memberId", middleware.RequireSelf())

	owner.Get("/missions", func(c *fiber.Ctx) error {
		memberID, _ := strconv.ParseUint(c.Params("memberId"), 10, 64)
		cursor, _ := strconv.ParseUint(c.Query("cursor", "0"), 10, 64)

		missions, err := missionService.ListOnMissions(memberID, cursor)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"missions": missions})
	})

	owner.Patch("/missions/:missionId/complete", func(c *fiber.Ctx) error {
		memberID, _ := strconv.ParseUint(c.Params("memberId"), 10, 64)
		missionID, err := strconv.ParseUint(c.Params("missionId"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "SMC001", "reason": "invalid mission id"})
		}
		cursor, _ := strconv.ParseUint(c.Query("cursor", "0"), 10, 64)

		participation, err := missionService.Complete(memberID, missionID, cursor)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(participation)
	})
}
