package models

import "time"

type Review struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	MemberID    uint64    `gorm:"index;not null" json:"member_id"`
	StoreID     uint64    `gorm:"index;not null" json:"store_id"`
	Grade       string    `gorm:"size:8;not null" json:"grade"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"-"`
	Store  *Store  `gorm:"foreignKey:StoreID" json:"-"`
}
