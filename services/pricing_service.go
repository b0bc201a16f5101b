package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-core/models"
	"hotel-core/utils"
)

// PricingService computes nightly rates and stay totals. Seasonal
// overrides are resolved per stayed night, not by the booking date, so
// a stay spanning a rate boundary prices each night under the rate that
// covers it.
type PricingService struct {
	store Store

	// Now is the injected clock; tests pin it.
	Now func() time.Time
}

func NewPricingService(store Store) *PricingService {
	return &PricingService{store: store, Now: time.Now}
}

func (s *PricingService) today() time.Time {
	return utils.DateOnly(s.Now())
}

// NightRate is one line of a stay's price breakdown.
type NightRate struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
}

// StayQuote is the full answer to a pricing request.
type StayQuote struct {
	Breakdown       []NightRate `json:"nightly_breakdown"`
	Total           float64     `json:"total"`
	DiscountApplied bool        `json:"discount_applied"`
}

// nightlyRate picks the applicable rate for one date from a rate list
// sorted newest-start first: the first covering rate wins, which makes
// "latest start_date" the deterministic tie-break on overlap. No
// covering rate means the base price applies.
func nightlyRate(rt *models.RoomType, rates []models.RoomRate, date time.Time) float64 {
	for _, rate := range rates {
		if rate.Covers(date) {
			return rate.Price
		}
	}
	return rt.BasePrice
}

// Quote returns the nightly rate for a room type on one date.
func (s *PricingService) Quote(ctx context.Context, roomTypeID uint, date time.Time) (float64, error) {
	rt, err := s.store.RoomTypeByID(ctx, roomTypeID)
	if err != nil {
		return 0, err
	}
	rates, err := s.store.RatesForRoomType(ctx, roomTypeID)
	if err != nil {
		return 0, err
	}
	return nightlyRate(rt, rates, utils.DateOnly(date)), nil
}

// PriceStay sums the nightly rate over [checkIn, checkOut); the
// checkout day is not a stayed night.
func (s *PricingService) PriceStay(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time) (float64, error) {
	quote, err := s.QuoteStay(ctx, roomTypeID, checkIn, checkOut, "")
	if err != nil {
		return 0, err
	}
	return quote.Total, nil
}

// QuoteStay prices the stay night by night and, when promoCode is
// given, applies a valid discount. It never consumes promo usage — that
// happens atomically at reservation commit.
func (s *PricingService) QuoteStay(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time, promoCode string) (*StayQuote, error) {
	checkIn = utils.DateOnly(checkIn)
	checkOut = utils.DateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return nil, &ValidationError{Field: "check_out", Reason: "must be after check_in"}
	}

	rt, err := s.store.RoomTypeByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	rates, err := s.store.RatesForRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}

	var breakdown []NightRate
	var total float64
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		rate := nightlyRate(rt, rates, d)
		breakdown = append(breakdown, NightRate{Date: d, Rate: rate})
		total += rate
	}

	quote := &StayQuote{Breakdown: breakdown, Total: total}
	if promoCode != "" {
		discounted, applied, err := s.ApplyPromo(ctx, total, promoCode, s.today())
		if err != nil {
			return nil, err
		}
		quote.Total = discounted
		quote.DiscountApplied = applied
	}
	return quote, nil
}

// ApplyPromo resolves and validates a code against the given day. A
// missing, inactive, expired or exhausted code is not an error: the
// original total comes back with applied=false.
func (s *PricingService) ApplyPromo(ctx context.Context, total float64, code string, today time.Time) (float64, bool, error) {
	promo, err := s.store.PromoByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return total, false, nil
		}
		return total, false, fmt.Errorf("resolve promo code %q: %w", code, err)
	}
	if !promo.ValidOn(utils.DateOnly(today)) {
		return total, false, nil
	}
	return promo.Discount(total), true, nil
}
