// handlers/store_routes.go
package handlers

import (
	"loyalty-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStoreRoutes(app *fiber.App, storeService *services.StoreService) {
	api := app.Group("/api/v1")

	api.Post("/stores", storeService.CreateStore)
	api.Post("/stores/:storeId/logo", storeService.UploadStoreLogo)
	api.Get("/stores/:storeId/reviews", storeService.GetStoreReviews)

	api.Post("/reviews", storeService.CreateReview)
	api.Get("/members/:memberId/reviews", storeService.GetMemberReviews)
}
