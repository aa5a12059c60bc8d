package services

import (
	"errors"
	"fmt"
	"time"

	"loyalty-mission-system/apperr"
	"loyalty-mission-system/models"
	"loyalty-mission-system/repository"
)

const (
	// missionDuration is the window a member has to complete a mission,
	// counted from start or reactivation.
	missionDuration = 7 * 24 * time.Hour

	onMissionPageSize = 5
)

// MissionService is the participation state machine: Absent → Active →
// Completed, with Dormant (deactivated, not completed) able to return to
// Active on a restart.
type MissionService struct {
	participations repository.ParticipationRepository
	missions       repository.MissionRepository
	now            func() time.Time
}

func NewMissionService(participations repository.ParticipationRepository, missions repository.MissionRepository) *MissionService {
	return &MissionService{
		participations: participations,
		missions:       missions,
		now:            time.Now,
	}
}

// Start begins (member, mission, address). Absent creates an active
// participation with a 7-day deadline; Dormant reactivates the existing row
// and re-arms the deadline; Active is rejected with MM001 regardless of
// expiry. A duplicate-key insert means a concurrent start won the race, which
// is the same conflict.
func (s *MissionService) Start(memberID, missionID uint64, address string) (*models.MemberMission, error) {
	mission, err := s.missions.FindWithStore(missionID)
	if err != nil {
		return nil, fmt.Errorf("start mission %d: looking up mission: %w", missionID, err)
	}
	if mission == nil {
		return nil, apperr.MissionNotFound(missionID)
	}

	existing, err := s.participations.FindByNaturalKey(memberID, missionID, address)
	if err != nil {
		return nil, fmt.Errorf("start mission %d for member %d: looking up participation: %w", missionID, memberID, err)
	}

	now := s.now()
	if existing != nil {
		if existing.Activated {
			return nil, apperr.AlreadyActive(memberID, missionID, address)
		}
		reactivated, err := s.participations.Reactivate(existing.ID, now.Add(missionDuration))
		if err != nil {
			return nil, fmt.Errorf("start mission %d for member %d: reactivating participation %d: %w", missionID, memberID, existing.ID, err)
		}
		return reactivated, nil
	}

	mm := &models.MemberMission{
		MemberID:    memberID,
		MissionID:   missionID,
		Address:     address,
		Activated:   true,
		IsCompleted: false,
		Deadline:    now.Add(missionDuration),
	}
	if err := s.participations.Create(mm); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperr.AlreadyActive(memberID, missionID, address)
		}
		return nil, fmt.Errorf("start mission %d for member %d: creating participation: %w", missionID, memberID, err)
	}
	return mm, nil
}

// Complete marks the participation located by (member, mission, id > cursor)
// as completed and credits the mission's point reward. The precondition
// checks run in a deliberate order so the caller gets the most actionable
// error: activation, then completion, then expiry.
func (s *MissionService) Complete(memberID, missionID, cursor uint64) (*models.MemberMission, error) {
	p, err := s.participations.FindForCompletion(memberID, missionID, cursor)
	if err != nil {
		return nil, fmt.Errorf("complete mission %d for member %d: looking up participation: %w", missionID, memberID, err)
	}
	if p == nil {
		return nil, apperr.ParticipationNotFound(memberID, missionID)
	}
	if err := s.checkCompletable(p); err != nil {
		return nil, err
	}

	mission, err := s.missions.FindWithStore(p.MissionID)
	if err != nil {
		return nil, fmt.Errorf("complete mission %d for member %d: looking up mission: %w", missionID, memberID, err)
	}
	var reward int64
	if mission != nil {
		reward = mission.PointReward
	}

	updated, err := s.participations.Complete(p.ID, reward)
	if errors.Is(err, repository.ErrStaleParticipation) {
		// The row changed between check and write; re-derive the precise
		// failure.
		fresh, ferr := s.participations.FindForCompletion(memberID, missionID, cursor)
		if ferr != nil {
			return nil, fmt.Errorf("complete mission %d for member %d: re-reading participation: %w", missionID, memberID, ferr)
		}
		if fresh == nil {
			return nil, apperr.ParticipationNotFound(memberID, missionID)
		}
		if cerr := s.checkCompletable(fresh); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("complete mission %d for member %d: participation %d: %w", missionID, memberID, p.ID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("complete mission %d for member %d: participation %d: %w", missionID, memberID, p.ID, err)
	}
	return updated, nil
}

func (s *MissionService) checkCompletable(p *models.MemberMission) error {
	switch {
	case !p.Activated:
		return apperr.NotActivated(p.ID)
	case p.IsCompleted:
		return apperr.AlreadyCompleted(p.ID)
	case p.Deadline.Before(s.now()):
		return apperr.MissionExpired(p.ID)
	}
	return nil
}

// ListOnMissions returns the member's in-progress missions with id greater
// than cursor, five per page.
func (s *MissionService) ListOnMissions(memberID, cursor uint64) ([]repository.OnMission, error) {
	rows, err := s.participations.ListOnMissions(memberID, cursor, onMissionPageSize)
	if err != nil {
		return nil, fmt.Errorf("list on-missions for member %d: %w", memberID, err)
	}
	return rows, nil
}

// CreateMission registers a mission under a store. The store must exist
// (M001 otherwise).
func (s *MissionService) CreateMission(storeID uint64, title, description string, pointReward int64) (*models.Mission, error) {
	exists, err := s.missions.StoreExists(storeID)
	if err != nil {
		return nil, fmt.Errorf("create mission: checking store %d: %w", storeID, err)
	}
	if !exists {
		return nil, apperr.NoMissionInsertion("store not found", map[string]uint64{"store_id": storeID})
	}

	mission := &models.Mission{
		StoreID:     storeID,
		Title:       title,
		Description: description,
		PointReward: pointReward,
	}
	if err := s.missions.Create(mission); err != nil {
		return nil, fmt.Errorf("create mission for store %d: %w", storeID, err)
	}
	return mission, nil
}

// ListStoreMissions returns a store's missions with id greater than cursor.
func (s *MissionService) ListStoreMissions(storeID, cursor uint64) ([]models.Mission, error) {
	missions, err := s.missions.ListByStore(storeID, cursor, onMissionPageSize)
	if err != nil {
		return nil, fmt.Errorf("list missions for store %d: %w", storeID, err)
	}
	return missions, nil
}
