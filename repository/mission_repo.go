package repository

import (
	"errors"

	"loyalty-mission-system/models"

	"gorm.io/gorm"
)

type MissionRepository interface {
	// FindWithStore returns the mission only when its owning store still
	// exists; (nil, nil) otherwise.
	FindWithStore(missionID uint64) (*models.Mission, error)
	Create(m *models.Mission) error
	ListByStore(storeID, cursor uint64, limit int) ([]models.Mission, error)
	StoreExists(storeID uint64) (bool, error)
}

type gormMissionRepo struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) MissionRepository {
	return &gormMissionRepo{db: db}
}

func (r *gormMissionRepo) FindWithStore(missionID uint64) (*models.Mission, error) {
	var m models.Mission
	err := r.db.
		Joins("INNER JOIN stores ON stores.id = missions.store_id").
		First(&m, "missions.id = ?", missionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormMissionRepo) Create(m *models.Mission) error {
	return translate(r.db.Create(m).Error)
}

func (r *gormMissionRepo) ListByStore(storeID, cursor uint64, limit int) ([]models.Mission, error) {
	var missions []models.Mission
	err := r.db.
		Where("store_id = ? AND id > ?", storeID, cursor).
		Order("id ASC").
		Limit(limit).
		Find(&missions).Error
	return missions, err
}

func (r *gormMissionRepo) StoreExists(storeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Store{}).Where("id = ?", storeID).Count(&count).Error
	return count > 0, err
}
