package services

import (
	"context"
	"fmt"
	"time"

	"hotel-core/models"
	"hotel-core/utils"
)

// AvailabilityService answers "which rooms are free of conflicting
// bookings over [checkIn, checkOut)". Intervals are half-open: a
// checkout on day D never blocks a check-in on day D.
type AvailabilityService struct {
	store Store

	Now func() time.Time
}

func NewAvailabilityService(store Store) *AvailabilityService {
	return &AvailabilityService{store: store, Now: time.Now}
}

func (s *AvailabilityService) today() time.Time {
	return utils.DateOnly(s.Now())
}

// FindAvailable lists active rooms matching the type/capacity filters
// that have no active booking overlapping the range, ordered by room
// number. This is a read-only scan; the reservation coordinator
// re-checks under the room lock before committing.
func (s *AvailabilityService) FindAvailable(ctx context.Context, roomTypeID uint, minCapacity int, checkIn, checkOut time.Time) ([]models.Room, error) {
	checkIn = utils.DateOnly(checkIn)
	checkOut = utils.DateOnly(checkOut)
	if err := validateStayDates(checkIn, checkOut, s.today()); err != nil {
		return nil, err
	}

	rooms, err := s.store.ListRooms(ctx, RoomFilter{
		RoomTypeID:  roomTypeID,
		MinCapacity: minCapacity,
		ActiveOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidate rooms: %w", err)
	}

	booked, err := s.store.BookedRoomIDs(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	free := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if !booked[room.ID] {
			free = append(free, room)
		}
	}
	return free, nil
}

// IsConflicting checks a single room for an overlapping active booking,
// optionally ignoring one booking id (re-validation of an existing
// booking, e.g. admin edits).
func (s *AvailabilityService) IsConflicting(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	checkIn = utils.DateOnly(checkIn)
	checkOut = utils.DateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return false, &ValidationError{Field: "check_out", Reason: "must be after check_in"}
	}
	if _, err := s.store.RoomByID(ctx, roomID); err != nil {
		return false, err
	}
	return s.store.HasOverlap(ctx, roomID, checkIn, checkOut, excludeBookingID)
}
