package repository

import (
	"errors"
	"time"

	"loyalty-mission-system/models"

	"gorm.io/gorm"
)

// OnMission is one row of the in-progress mission listing: the participation
// joined with its mission and store.
type OnMission struct {
	ID                 uint64    `json:"id"`
	MemberID           uint64    `json:"member_id"`
	StoreName          string    `json:"store_name"`
	MissionTitle       string    `json:"mission_title"`
	MissionDescription string    `json:"mission_description"`
	MissionPointReward int64     `json:"mission_point_reward"`
	Activated          bool      `json:"activated"`
	IsCompleted        bool      `json:"is_completed"`
	CreatedAt          time.Time `json:"created_at"`
	Deadline           time.Time `json:"deadline"`
}

// ParticipationRepository is the narrow storage contract the mission engine
// runs against. Find methods return (nil, nil) when no row matches.
type ParticipationRepository interface {
	FindByNaturalKey(memberID, missionID uint64, address string) (*models.MemberMission, error)
	Create(mm *models.MemberMission) error
	Reactivate(id uint64, deadline time.Time) (*models.MemberMission, error)

	// FindForCompletion locates the first participation of (member, mission)
	// with id greater than cursor, ascending.
	FindForCompletion(memberID, missionID, cursor uint64) (*models.MemberMission, error)

	// Complete flips is_completed under the full precondition guard and
	// credits rewardPoints to the owning member in the same transaction.
	// Returns ErrStaleParticipation when the guard matches no row.
	Complete(id uint64, rewardPoints int64) (*models.MemberMission, error)

	ListOnMissions(memberID, cursor uint64, limit int) ([]OnMission, error)

	// DeactivateExpired marks live participations whose deadline passed
	// before the cutoff as dormant. Returns the number of rows changed.
	DeactivateExpired(cutoff time.Time) (int64, error)
}

type gormParticipationRepo struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &gormParticipationRepo{db: db}
}

func (r *gormParticipationRepo) FindByNaturalKey(memberID, missionID uint64, address string) (*models.MemberMission, error) {
	var mm models.MemberMission
	err := r.db.
		Where("member_id = ? AND mission_id = ? AND address = ?", memberID, missionID, address).
		First(&mm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mm, nil
}

func (r *gormParticipationRepo) Create(mm *models.MemberMission) error {
	return translate(r.db.Create(mm).Error)
}

func (r *gormParticipationRepo) Reactivate(id uint64, deadline time.Time) (*models.MemberMission, error) {
	var mm models.MemberMission
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.MemberMission{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"activated":  true,
				"deadline":   deadline,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		return tx.First(&mm, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &mm, nil
}

func (r *gormParticipationRepo) FindForCompletion(memberID, missionID, cursor uint64) (*models.MemberMission, error) {
	var mm models.MemberMission
	err := r.db.
		Where("member_id = ? AND mission_id = ? AND id > ?", memberID, missionID, cursor).
		Order("id ASC").
		First(&mm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mm, nil
}

func (r *gormParticipationRepo) Complete(id uint64, rewardPoints int64) (*models.MemberMission, error) {
	var mm models.MemberMission
	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.MemberMission{}).
			Where("id = ? AND activated = ? AND is_completed = ? AND deadline >= ?", id, true, false, now).
			Updates(map[string]interface{}{
				"is_completed": true,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleParticipation
		}
		if err := tx.First(&mm, "id = ?", id).Error; err != nil {
			return err
		}
		if rewardPoints > 0 {
			return tx.Model(&models.Member{}).
				Where("id = ?", mm.MemberID).
				Update("point", gorm.Expr("point + ?", rewardPoints)).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mm, nil
}

func (r *gormParticipationRepo) ListOnMissions(memberID, cursor uint64, limit int) ([]OnMission, error) {
	var rows []OnMission
	err := r.db.Raw(`
		SELECT mm.id, mm.member_id, s.name AS store_name,
		       m.title AS mission_title, m.description AS mission_description,
		       m.point_reward AS mission_point_reward,
		       mm.activated, mm.is_completed, mm.created_at, mm.deadline
		FROM member_missions mm
		INNER JOIN missions m ON m.id = mm.mission_id
		INNER JOIN stores s ON s.id = m.store_id
		WHERE mm.member_id = ? AND mm.id > ? AND mm.activated = TRUE AND mm.is_completed = FALSE
		ORDER BY mm.id ASC
		LIMIT ?
	`, memberID, cursor, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormParticipationRepo) DeactivateExpired(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.MemberMission{}).
		Where("activated = ? AND is_completed = ? AND deadline < ?", true, false, cutoff).
		Updates(map[string]interface{}{
			"activated":  false,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
