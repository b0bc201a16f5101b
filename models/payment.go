package models

import "time"

const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment records settlement state for a booking. The linkage to its
// booking is permanent; status may still move (e.g. to refunded).
type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint    `gorm:"column:booking_id;index" json:"booking_id"`
	Amount    float64 `gorm:"type:decimal(10,2)" json:"amount"`
	Method    string  `gorm:"size:20" json:"method"`
	Status    string  `gorm:"size:20;default:pending" json:"status"`

	ProviderRef string     `gorm:"column:provider_ref;size:200" json:"provider_ref,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	PaidAt      *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ValidPaymentMethod reports whether m is a supported settlement method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCheck:
		return true
	}
	return false
}
