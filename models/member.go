package models

import "time"

// Member is a registered account. Password holds the credential digest and is
// nil for OAuth-only accounts that never set a local password.
type Member struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;size:320;not null" json:"email"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Nickname    *string    `gorm:"size:100" json:"nickname,omitempty"`
	Gender      string     `gorm:"size:16" json:"gender"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	PhoneNumber string     `gorm:"size:32" json:"phone_number"`
	Password    *string    `gorm:"size:100" json:"-"`
	Status      string     `gorm:"size:16;default:'ACTIVE'" json:"status"`
	Point       int64      `gorm:"default:0" json:"point"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`

	Preferences []MemberPreference `gorm:"foreignKey:MemberID" json:"preferences,omitempty"`
}

// MemberPreference is one food-category preference chosen at signup.
type MemberPreference struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	MemberID uint64 `gorm:"not null;uniqueIndex:idx_member_preference" json:"member_id"`
	Category string `gorm:"size:100;not null;uniqueIndex:idx_member_preference" json:"category"`
}
