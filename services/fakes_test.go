package services

import (
	"sort"
	"time"

	"loyalty-mission-system/models"
	"loyalty-mission-system/repository"
)

// In-memory stand-ins for the repository contracts.

type fakeParticipationRepo struct {
	rows       map[uint64]*models.MemberMission
	nextID     uint64
	lastReward int64
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{rows: map[uint64]*models.MemberMission{}, nextID: 1}
}

func (f *fakeParticipationRepo) sortedIDs() []uint64 {
	ids := make([]uint64, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeParticipationRepo) FindByNaturalKey(memberID, missionID uint64, address string) (*models.MemberMission, error) {
	for _, id := range f.sortedIDs() {
		r := f.rows[id]
		if r.MemberID == memberID && r.MissionID == missionID && r.Address == address {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeParticipationRepo) Create(mm *models.MemberMission) error {
	if existing, _ := f.FindByNaturalKey(mm.MemberID, mm.MissionID, mm.Address); existing != nil {
		return repository.ErrDuplicateKey
	}
	mm.ID = f.nextID
	f.nextID++
	stored := *mm
	f.rows[mm.ID] = &stored
	return nil
}

func (f *fakeParticipationRepo) Reactivate(id uint64, deadline time.Time) (*models.MemberMission, error) {
	r := f.rows[id]
	r.Activated = true
	r.Deadline = deadline
	r.UpdatedAt = time.Now()
	out := *r
	return &out, nil
}

func (f *fakeParticipationRepo) FindForCompletion(memberID, missionID, cursor uint64) (*models.MemberMission, error) {
	for _, id := range f.sortedIDs() {
		r := f.rows[id]
		if r.MemberID == memberID && r.MissionID == missionID && r.ID > cursor {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeParticipationRepo) Complete(id uint64, rewardPoints int64) (*models.MemberMission, error) {
	r, ok := f.rows[id]
	if !ok || !r.Activated || r.IsCompleted {
		return nil, repository.ErrStaleParticipation
	}
	r.IsCompleted = true
	r.UpdatedAt = time.Now()
	f.lastReward = rewardPoints
	out := *r
	return &out, nil
}

func (f *fakeParticipationRepo) ListOnMissions(memberID, cursor uint64, limit int) ([]repository.OnMission, error) {
	var out []repository.OnMission
	for _, id := range f.sortedIDs() {
		r := f.rows[id]
		if r.MemberID != memberID || r.ID <= cursor || !r.Activated || r.IsCompleted {
			continue
		}
		out = append(out, repository.OnMission{
			ID:          r.ID,
			MemberID:    r.MemberID,
			Activated:   r.Activated,
			IsCompleted: r.IsCompleted,
			CreatedAt:   r.CreatedAt,
			Deadline:    r.Deadline,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeParticipationRepo) DeactivateExpired(cutoff time.Time) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.Activated && !r.IsCompleted && r.Deadline.Before(cutoff) {
			r.Activated = false
			n++
		}
	}
	return n, nil
}

type fakeMissionRepo struct {
	missions map[uint64]*models.Mission
	stores   map[uint64]bool
	nextID   uint64
}

func newFakeMissionRepo() *fakeMissionRepo {
	return &fakeMissionRepo{missions: map[uint64]*models.Mission{}, stores: map[uint64]bool{}, nextID: 1}
}

func (f *fakeMissionRepo) FindWithStore(missionID uint64) (*models.Mission, error) {
	m, ok := f.missions[missionID]
	if !ok || !f.stores[m.StoreID] {
		return nil, nil
	}
	return m, nil
}

func (f *fakeMissionRepo) Create(m *models.Mission) error {
	m.ID = f.nextID
	f.nextID++
	stored := *m
	f.missions[m.ID] = &stored
	return nil
}

func (f *fakeMissionRepo) ListByStore(storeID, cursor uint64, limit int) ([]models.Mission, error) {
	ids := make([]uint64, 0, len(f.missions))
	for id := range f.missions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.Mission
	for _, id := range ids {
		m := f.missions[id]
		if m.StoreID != storeID || m.ID <= cursor {
			continue
		}
		out = append(out, *m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMissionRepo) StoreExists(storeID uint64) (bool, error) {
	return f.stores[storeID], nil
}

func (f *fakeMissionRepo) addMission(storeID uint64, reward int64) *models.Mission {
	f.stores[storeID] = true
	m := &models.Mission{StoreID: storeID, Title: "visit", PointReward: reward}
	_ = f.Create(m)
	return f.missions[m.ID]
}

type fakeMemberRepo struct {
	rows     map[uint64]*models.Member
	prefs    map[uint64][]string
	nextID   uint64
	forceDup bool
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{rows: map[uint64]*models.Member{}, prefs: map[uint64][]string{}, nextID: 1}
}

func (f *fakeMemberRepo) FindByEmail(email string) (*models.Member, error) {
	ids := make([]uint64, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if f.rows[id].Email == email {
			return f.rows[id], nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) FindByID(id uint64) (*models.Member, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (f *fakeMemberRepo) Create(m *models.Member) error {
	if f.forceDup {
		return repository.ErrDuplicateKey
	}
	if existing, _ := f.FindByEmail(m.Email); existing != nil {
		return repository.ErrDuplicateKey
	}
	m.ID = f.nextID
	f.nextID++
	stored := *m
	f.rows[m.ID] = &stored
	return nil
}

func (f *fakeMemberRepo) UpsertPreferences(memberID uint64, categories []string) error {
	f.prefs[memberID] = append([]string{}, categories...)
	return nil
}

func (f *fakeMemberRepo) Preferences(memberID uint64) ([]models.MemberPreference, error) {
	var out []models.MemberPreference
	for i, c := range f.prefs[memberID] {
		out = append(out, models.MemberPreference{ID: uint64(i + 1), MemberID: memberID, Category: c})
	}
	return out, nil
}

func (f *fakeMemberRepo) UpdateLastLogin(id uint64, at time.Time) error {
	if m, ok := f.rows[id]; ok {
		m.LastLogin = &at
	}
	return nil
}
