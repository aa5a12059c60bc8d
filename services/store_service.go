// services/store_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"loyalty-mission-system/models"
	"loyalty-mission-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const reviewPageSize = 5

// StoreService carries the thin store/review CRUD surface. Unlike the
// mission engine these handlers talk to the DB directly.
type StoreService struct {
	DB *gorm.DB
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{DB: db}
}

// CreateStore registers a new store.
func (s *StoreService) CreateStore(c *fiber.Ctx) error {
	var req struct {
		Name           string `json:"name" validate:"required"`
		FoodCategoryID uint64 `json:"food_category_id" validate:"required"`
		Subscription   string `json:"subscription"`
		Address        string `json:"address" validate:"required"`
		DetailAddress  string `json:"detail_address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "S001", "reason": "invalid request body"})
	}
	if verr := ValidateStruct(req); verr != nil {
		return c.Status(verr.Status).JSON(verr)
	}

	store := &models.Store{
		Name:           req.Name,
		FoodCategoryID: req.FoodCategoryID,
		Subscription:   req.Subscription,
		Address:        req.Address,
		DetailAddress:  req.DetailAddress,
	}
	if err := s.DB.Create(store).Error; err != nil {
		log.Printf("DB Error creating store %q: %v", req.Name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create store"})
	}

	return c.Status(fiber.StatusCreated).JSON(store)
}

// UploadStoreLogo stores a logo image in R2 (or the local uploads dir when
// R2 is not configured) and saves its URL on the store.
func (s *StoreService) UploadStoreLogo(c *fiber.Ctx) error {
	storeID, err := strconv.ParseUint(c.Params("storeId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "S001", "reason": "invalid store id"})
	}

	var store models.Store
	if err := s.DB.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"errorCode": "S001", "reason": "store not found"})
		}
		log.Printf("DB Error fetching store %d: %v", storeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "S001", "reason": "logo file is required"})
	}

	key := fmt.Sprintf("logos/%s-%s%s", slug.Make(store.Name), uuid.NewString()[:8], filepath.Ext(fileHeader.Filename))

	var url string
	if utils.R2Enabled() {
		url, err = utils.UploadFileToR2(fileHeader, key)
	} else {
		url, err = utils.SaveUpload(fileHeader, key)
	}
	if err != nil {
		log.Printf("Upload failed for store %d: %v", storeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload logo"})
	}

	store.LogoURL = url
	if err := s.DB.Save(&store).Error; err != nil {
		log.Printf("DB Error saving logo URL for store %d: %v", storeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save logo URL"})
	}

	return c.JSON(fiber.Map{"store_id": store.ID, "logo_url": url})
}

// CreateReview records a member's review of a store. Member and store must
// both exist.
func (s *StoreService) CreateReview(c *fiber.Ctx) error {
	var req struct {
		MemberID    uint64 `json:"member_id" validate:"required"`
		StoreID     uint64 `json:"store_id" validate:"required"`
		Grade       string `json:"grade" validate:"required,oneof=1 2 3 4 5"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "R001", "reason": "invalid request body"})
	}
	if verr := ValidateStruct(req); verr != nil {
		return c.Status(verr.Status).JSON(verr)
	}

	var memberCount, storeCount int64
	s.DB.Model(&models.Member{}).Where("id = ?", req.MemberID).Count(&memberCount)
	s.DB.Model(&models.Store{}).Where("id = ?", req.StoreID).Count(&storeCount)
	if memberCount == 0 || storeCount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errorCode": "R001",
			"reason":    "member or store not found",
			"data":      fiber.Map{"member_id": req.MemberID, "store_id": req.StoreID},
		})
	}

	review := &models.Review{
		MemberID:    req.MemberID,
		StoreID:     req.StoreID,
		Grade:       req.Grade,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.DB.Create(review).Error; err != nil {
		log.Printf("DB Error creating review (member=%d store=%d): %v", req.MemberID, req.StoreID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create review"})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

type reviewRow struct {
	ID          uint64    `json:"id"`
	Nickname    *string   `json:"nickname"`
	StoreName   string    `json:"store_name"`
	Grade       string    `json:"grade"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetStoreReviews lists a store's reviews, id > cursor, five per page.
func (s *StoreService) GetStoreReviews(c *fiber.Ctx) error {
	storeID, err := strconv.ParseUint(c.Params("storeId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "LS001", "reason": "invalid store id"})
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor", "0"), 10, 64)

	var rows []reviewRow
	if err := s.DB.Raw(`
		SELECT r.id, m.nickname, s.name AS store_name, r.grade, r.description, r.created_at
		FROM reviews r
		INNER JOIN members m ON m.id = r.member_id
		INNER JOIN stores s ON s.id = r.store_id
		WHERE r.store_id = ? AND r.id > ?
		ORDER BY r.id ASC
		LIMIT ?
	`, storeID, cursor, reviewPageSize).Scan(&rows).Error; err != nil {
		log.Printf("DB Error listing reviews for store %d: %v", storeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}

	return c.JSON(fiber.Map{"reviews": rows, "cursor": nextCursor(rows)})
}

// GetMemberReviews lists a member's reviews, id > cursor, five per page.
func (s *StoreService) GetMemberReviews(c *fiber.Ctx) error {
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "LM001", "reason": "invalid member id"})
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor", "0"), 10, 64)

	var rows []reviewRow
	if err := s.DB.Raw(`
		SELECT r.id, m.nickname, s.name AS store_name, r.grade, r.description, r.created_at
		FROM reviews r
		INNER JOIN members m ON m.id = r.member_id
		INNER JOIN stores s ON s.id = r.store_id
		WHERE r.member_id = ? AND r.id > ?
		ORDER BY r.id ASC
		LIMIT ?
	`, memberID, cursor, reviewPageSize).Scan(&rows).Error; err != nil {
		log.Printf("DB Error listing reviews for member %d: %v", memberID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}

	return c.JSON(fiber.Map{"reviews": rows, "cursor": nextCursor(rows)})
}

func nextCursor(rows []reviewRow) uint64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].ID
}
