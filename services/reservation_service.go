package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-core/models"
	"hotel-core/utils"
)

// ReservationRequest carries everything needed to turn a reservation
// attempt into a booking. Either RoomID (fixed room) or RoomTypeID
// (any free room of the type) must be set.
type ReservationRequest struct {
	RoomID     uint
	RoomTypeID uint
	CheckIn    time.Time
	CheckOut   time.Time
	NumGuests  int
	GuestName  string
	GuestEmail string
	GuestPhone string
	UserID     *uint // nil for walk-ins
	PromoCode  string
	Notes      string
}

// ReservationService is the only path that creates bookings. It treats
// check+insert as one atomic unit per room via Store.WithRoomLock, so
// two concurrent requests for the same room can never both observe "no
// conflict" and both commit. The lock covers only the check+insert,
// never pricing lookups or anything external.
type ReservationService struct {
	store        Store
	pricing      *PricingService
	availability *AvailabilityService

	Now func() time.Time
}

func NewReservationService(store Store, pricing *PricingService, availability *AvailabilityService) *ReservationService {
	return &ReservationService{
		store:        store,
		pricing:      pricing,
		availability: availability,
		Now:          time.Now,
	}
}

const refCodeAttempts = 5

// Reserve validates the request, resolves candidate rooms, prices the
// stay and commits a pending booking against the first candidate that
// is still free under its room lock. On any failure no partial state
// survives: no booking, no payment, no consumed promo use.
func (s *ReservationService) Reserve(ctx context.Context, req ReservationRequest) (*models.Booking, error) {
	checkIn := utils.DateOnly(req.CheckIn)
	checkOut := utils.DateOnly(req.CheckOut)
	today := utils.DateOnly(s.Now())

	if err := validateStayDates(checkIn, checkOut, today); err != nil {
		return nil, err
	}
	if req.GuestName == "" {
		return nil, &ValidationError{Field: "guest_name", Reason: "required"}
	}
	if req.NumGuests < 1 {
		return nil, &ValidationError{Field: "num_guests", Reason: "must be at least 1"}
	}

	candidates, err := s.resolveCandidates(ctx, req, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	// A known promo is resolved up front; whether the use is actually
	// granted is decided inside the commit scope, where the counter
	// increment is raced against the cap.
	var promo *models.PromoCode
	if req.PromoCode != "" {
		promo, err = s.store.PromoByCode(ctx, req.PromoCode)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("resolve promo code %q: %w", req.PromoCode, err)
		}
		if promo != nil && !promo.ValidOn(today) {
			promo = nil
		}
	}

	for _, room := range candidates {
		total, err := s.pricing.PriceStay(ctx, room.RoomTypeID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}

		booking, err := s.commitRoom(ctx, room.ID, checkIn, checkOut, total, promo, req, today)
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, ErrRoomConflict) {
			continue // next candidate
		}
		return nil, err
	}

	if req.RoomID != 0 {
		return nil, &ConflictError{RoomID: req.RoomID, CheckIn: checkIn, CheckOut: checkOut}
	}
	return nil, &ConflictError{CheckIn: checkIn, CheckOut: checkOut}
}

// resolveCandidates returns the rooms to attempt, in stable ascending
// room-number order. Guest count over the type's capacity is rejected
// before any locking.
func (s *ReservationService) resolveCandidates(ctx context.Context, req ReservationRequest, checkIn, checkOut time.Time) ([]models.Room, error) {
	if req.RoomID != 0 {
		room, err := s.store.RoomByID(ctx, req.RoomID)
		if err != nil {
			return nil, err
		}
		if !room.IsActive {
			return nil, &ValidationError{Field: "room_id", Reason: "room is not active"}
		}
		rt, err := s.store.RoomTypeByID(ctx, room.RoomTypeID)
		if err != nil {
			return nil, err
		}
		if req.NumGuests > rt.Capacity {
			return nil, &ValidationError{
				Field:  "num_guests",
				Reason: fmt.Sprintf("room capacity is %d guests", rt.Capacity),
			}
		}
		return []models.Room{*room}, nil
	}

	if req.RoomTypeID == 0 {
		return nil, &ValidationError{Field: "room_id", Reason: "room_id or room_type_id required"}
	}
	rt, err := s.store.RoomTypeByID(ctx, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if req.NumGuests > rt.Capacity {
		return nil, &ValidationError{
			Field:  "num_guests",
			Reason: fmt.Sprintf("room capacity is %d guests", rt.Capacity),
		}
	}
	// Capacity-filtered and already sorted by room number.
	return s.availability.FindAvailable(ctx, req.RoomTypeID, req.NumGuests, checkIn, checkOut)
}

// commitRoom runs the atomic unit for one room: overlap re-check,
// optional promo consumption and booking insert, all inside the room's
// exclusive scope. The store rolls the whole unit back on error, so a
// consumed promo use never outlives a failed insert.
func (s *ReservationService) commitRoom(
	ctx context.Context,
	roomID uint,
	checkIn, checkOut time.Time,
	total float64,
	promo *models.PromoCode,
	req ReservationRequest,
	today time.Time,
) (*models.Booking, error) {
	var booking *models.Booking

	err := s.store.WithRoomLock(ctx, roomID, func(tx Store) error {
		overlap, err := tx.HasOverlap(ctx, roomID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if overlap {
			return &ConflictError{RoomID: roomID, CheckIn: checkIn, CheckOut: checkOut}
		}

		finalTotal := total
		if promo != nil {
			granted, err := tx.ConsumePromo(ctx, promo.ID, today)
			if err != nil {
				return fmt.Errorf("consume promo %q: %w", promo.Code, err)
			}
			if granted {
				finalTotal = promo.Discount(total)
			}
		}

		b := &models.Booking{
			RoomID:     roomID,
			UserID:     req.UserID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			GuestName:  req.GuestName,
			GuestEmail: req.GuestEmail,
			GuestPhone: req.GuestPhone,
			NumGuests:  req.NumGuests,
			Status:     models.BookingPending,
			TotalPrice: finalTotal,
			Notes:      req.Notes,
		}
		for attempt := 0; ; attempt++ {
			b.ReferenceCode = utils.NewReferenceCode()
			err := tx.CreateBooking(ctx, b)
			if err == nil {
				break
			}
			if errors.Is(err, ErrDuplicateKey) && attempt < refCodeAttempts-1 {
				continue
			}
			return fmt.Errorf("create booking: %w", err)
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}
