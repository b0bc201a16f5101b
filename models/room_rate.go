package models

import "time"

// RoomRate overrides a RoomType's base price over the closed date
// interval [StartDate, EndDate]. When several rates cover the same date
// the one with the latest StartDate wins (then highest ID), so pricing
// is deterministic under overlap.
type RoomRate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomTypeID uint      `gorm:"column:room_type_id;index" json:"room_type_id"`
	StartDate  time.Time `gorm:"column:start_date;type:date" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date;type:date" json:"end_date"`
	Price      float64   `gorm:"type:decimal(10,2)" json:"price"`
	Reason     string    `gorm:"size:100" json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Covers reports whether date falls inside [StartDate, EndDate].
func (r RoomRate) Covers(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}
