package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingCheckedIn  = "checked_in"
	BookingCheckedOut = "checked_out"
	BookingCancelled  = "cancelled"
)

// Booking is a reservation of one room over the half-open interval
// [CheckIn, CheckOut). Room and date range are fixed at creation;
// amendments require cancel + rebook. Guest fields are a snapshot taken
// when the booking was made and are never synced afterwards.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:64" json:"reference_code"`
	RoomID        uint   `gorm:"column:room_id;index" json:"room_id"`
	UserID        *uint  `gorm:"column:user_id;index" json:"user_id,omitempty"` // nil for walk-ins

	CheckIn  time.Time `gorm:"column:check_in;type:date;index:idx_booking_status_checkin,priority:2" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out;type:date" json:"check_out"`

	GuestName  string `gorm:"column:guest_name;size:200" json:"guest_name"`
	GuestEmail string `gorm:"column:guest_email;size:254" json:"guest_email,omitempty"`
	GuestPhone string `gorm:"column:guest_phone;size:20" json:"guest_phone,omitempty"`
	NumGuests  int    `gorm:"column:num_guests" json:"num_guests"`

	Status     string  `gorm:"size:20;default:pending;index:idx_booking_status_checkin,priority:1" json:"status"`
	TotalPrice float64 `gorm:"column:total_price;type:decimal(10,2)" json:"total_price"`
	Notes      string  `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// ActiveBookingStatuses are the statuses that hold a room: only these
// participate in overlap conflicts.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed, BookingCheckedIn}

// ValidBookingStatus reports whether s is a member of the status enum.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return true
	}
	return false
}

// Nights is the number of stayed nights; the checkout day is excluded.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Overlaps reports whether the booking's half-open interval intersects
// [checkIn, checkOut). A checkout on day D never conflicts with a
// check-in on day D.
func (b Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// CancellableOn reports whether the cancellation cutoff allows a cancel
// on the given day: status still pending/confirmed and more than one
// full day before check-in.
func (b Booking) CancellableOn(today time.Time) bool {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return false
	}
	return b.CheckIn.Sub(today).Hours()/24 > 1
}
