package models

import "time"

const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

type PromoCode struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code          string    `gorm:"uniqueIndex;size:50" json:"code"`
	Description   string    `gorm:"size:200" json:"description,omitempty"`
	DiscountType  string    `gorm:"column:discount_type;size:20" json:"discount_type"`
	DiscountValue float64   `gorm:"column:discount_value;type:decimal(10,2)" json:"discount_value"`
	ValidFrom     time.Time `gorm:"column:valid_from;type:date" json:"valid_from"`
	ValidTo       time.Time `gorm:"column:valid_to;type:date" json:"valid_to"`
	IsActive      bool      `gorm:"column:is_active;default:true" json:"is_active"`

	// MaxUses nil means unlimited.
	MaxUses   *int `gorm:"column:max_uses" json:"max_uses,omitempty"`
	TimesUsed int  `gorm:"column:times_used;default:0" json:"times_used"`

	CreatedAt time.Time `json:"created_at"`
}

// ValidOn reports whether the code is usable on the given day: active,
// inside its validity window, and not exhausted.
func (p PromoCode) ValidOn(today time.Time) bool {
	if !p.IsActive {
		return false
	}
	if today.Before(p.ValidFrom) || today.After(p.ValidTo) {
		return false
	}
	if p.MaxUses != nil && p.TimesUsed >= *p.MaxUses {
		return false
	}
	return true
}

// Discount applies the code to total, flooring at zero. It does not
// touch the usage counter.
func (p PromoCode) Discount(total float64) float64 {
	var out float64
	switch p.DiscountType {
	case DiscountFixed:
		out = total - p.DiscountValue
	case DiscountPercentage:
		out = total * (1 - p.DiscountValue/100)
	default:
		return total
	}
	if out < 0 {
		return 0
	}
	return out
}
