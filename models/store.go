package models

import "time"

type Store struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	FoodCategoryID uint64    `gorm:"index" json:"food_category_id"`
	Subscription   string    `gorm:"size:255" json:"subscription"`
	Address        string    `gorm:"size:255" json:"address"`
	DetailAddress  string    `gorm:"size:255" json:"detail_address"`
	LogoURL        string    `json:"logo_url,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
