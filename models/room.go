package models

import (
	"time"

	"gorm.io/gorm"
)

// Room statuses are operational flags set by staff. They are independent
// of booking-derived occupancy: a room can be "available" as a category
// while holding confirmed future bookings.
const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
	RoomBlocked     = "blocked"
)

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomNumber string `gorm:"column:room_number;uniqueIndex;size:50" json:"room_number"`
	RoomTypeID uint   `gorm:"column:room_type_id;index" json:"room_type_id"`
	Floor      *int   `gorm:"column:floor" json:"floor,omitempty"`
	Status     string `gorm:"size:20;default:available" json:"status"`
	IsActive   bool   `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID;references:ID" json:"room_type,omitempty"`
}

// ValidRoomStatus reports whether s is one of the operational statuses.
func ValidRoomStatus(s string) bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomBlocked:
		return true
	}
	return false
}
