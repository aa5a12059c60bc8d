package models

import "time"

// MemberMission records one member's attempt at one mission at one address.
// The (member_id, mission_id, address) triple is the natural key; the unique
// index is the backstop that keeps two concurrent starts from both inserting.
//
// Lifecycle: created active with a 7-day deadline; goes dormant
// (activated=false) only via the deadline sweep; reactivation re-arms the
// deadline; is_completed flips to true exactly once and never back. Rows are
// never deleted.
type MemberMission struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	MemberID    uint64    `gorm:"not null;uniqueIndex:idx_member_mission_address" json:"member_id"`
	MissionID   uint64    `gorm:"not null;uniqueIndex:idx_member_mission_address" json:"mission_id"`
	Address     string    `gorm:"size:255;not null;uniqueIndex:idx_member_mission_address" json:"address"`
	Activated   bool      `gorm:"not null;default:true" json:"activated"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
