package repository

import (
	"errors"
	"time"

	"loyalty-mission-system/models"

	"gorm.io/gorm"
)

type MemberRepository interface {
	// FindByEmail matches the email exactly as stored; (nil, nil) when absent.
	FindByEmail(email string) (*models.Member, error)
	FindByID(id uint64) (*models.Member, error)

	// Create inserts the member; returns ErrDuplicateKey when the email
	// unique constraint fires.
	Create(m *models.Member) error

	UpsertPreferences(memberID uint64, categories []string) error
	Preferences(memberID uint64) ([]models.MemberPreference, error)
	UpdateLastLogin(id uint64, at time.Time) error
}

type gormMemberRepo struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &gormMemberRepo{db: db}
}

func (r *gormMemberRepo) FindByEmail(email string) (*models.Member, error) {
	var m models.Member
	err := r.db.Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormMemberRepo) FindByID(id uint64) (*models.Member, error) {
	var m models.Member
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormMemberRepo) Create(m *models.Member) error {
	return translate(r.db.Create(m).Error)
}

func (r *gormMemberRepo) UpsertPreferences(memberID uint64, categories []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, category := range categories {
			pref := models.MemberPreference{MemberID: memberID, Category: category}
			if err := tx.Create(&pref).Error; err != nil {
				// Re-submitting the same preference is not an error.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return err
			}
		}
		return nil
	})
}

func (r *gormMemberRepo) Preferences(memberID uint64) ([]models.MemberPreference, error) {
	var prefs []models.MemberPreference
	err := r.db.Where("member_id = ?", memberID).Order("id ASC").Find(&prefs).Error
	return prefs, err
}

func (r *gormMemberRepo) UpdateLastLogin(id uint64, at time.Time) error {
	return r.db.Model(&models.Member{}).Where("id = ?", id).Update("last_login", at).Error
}
