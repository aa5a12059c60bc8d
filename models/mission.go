package models

import "time"

// Mission is a store-defined task carrying a point reward. Immutable after
// creation.
type Mission struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	StoreID     uint64    `gorm:"index;not null" json:"store_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PointReward int64     `gorm:"not null;default:0" json:"point_reward"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Store *Store `gorm:"foreignKey:StoreID" json:"-"`
}
