package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType is the pricing/capacity category a Room belongs to
// (Standard, Double, Suite, ...). Name is the stable identity;
// BasePrice and Capacity are staff-editable.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"uniqueIndex;size:100" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	BasePrice   float64 `gorm:"column:base_price;type:decimal(10,2)" json:"base_price"`
	Capacity    int     `gorm:"default:2" json:"capacity"`

	// Amenity names as a JSON string array, e.g. ["WiFi","AC","Pool"].
	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

const (
	MinCapacity = 1
	MaxCapacity = 8
)
