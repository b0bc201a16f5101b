package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"hotel-core/models"
)

func TestReserveCreatesPendingBooking(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	booking := f.reserve(t, ReservationRequest{
		RoomID:     room.ID,
		CheckIn:    date(t, "2024-06-01"),
		CheckOut:   date(t, "2024-06-04"),
		NumGuests:  2,
		GuestName:  "Ann Smith",
		GuestEmail: "ann@example.com",
		GuestPhone: "555-0101",
	})

	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, 6000.0, booking.TotalPrice)
	assert.Equal(t, room.ID, booking.RoomID)
	assert.Equal(t, "Ann Smith", booking.GuestName)
	assert.Equal(t, "ann@example.com", booking.GuestEmail)
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, booking.ReferenceCode)

	stored, err := f.store.BookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ReferenceCode, stored.ReferenceCode)
}

func TestReserveConflictOnOverlap(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	f.reserve(t, ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-02"),
		CheckOut:  date(t, "2024-06-03"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})

	_, err := f.reservations.Reserve(context.Background(), ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-01"),
		CheckOut:  date(t, "2024-06-04"),
		NumGuests: 2,
		GuestName: "Bob Jones",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRoomConflict)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, room.ID, conflict.RoomID)
}

func TestReserveBackToBackStays(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	f.reserve(t, ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-01"),
		CheckOut:  date(t, "2024-06-03"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})
	// New check-in on the previous checkout day: no conflict.
	f.reserve(t, ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-03"),
		CheckOut:  date(t, "2024-06-05"),
		NumGuests: 2,
		GuestName: "Bob Jones",
	})
}

func TestReserveValidation(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   ReservationRequest
		field string
	}{
		{
			name: "guests over capacity",
			req: ReservationRequest{
				RoomID: room.ID, CheckIn: date(t, "2024-06-01"), CheckOut: date(t, "2024-06-04"),
				NumGuests: 3, GuestName: "Ann Smith",
			},
			field: "num_guests",
		},
		{
			name: "missing guest name",
			req: ReservationRequest{
				RoomID: room.ID, CheckIn: date(t, "2024-06-01"), CheckOut: date(t, "2024-06-04"),
				NumGuests: 2,
			},
			field: "guest_name",
		},
		{
			name: "check-in in the past",
			req: ReservationRequest{
				RoomID: room.ID, CheckIn: date(t, "2024-04-20"), CheckOut: date(t, "2024-04-25"),
				NumGuests: 2, GuestName: "Ann Smith",
			},
			field: "check_in",
		},
		{
			name: "inverted range",
			req: ReservationRequest{
				RoomID: room.ID, CheckIn: date(t, "2024-06-04"), CheckOut: date(t, "2024-06-01"),
				NumGuests: 2, GuestName: "Ann Smith",
			},
			field: "check_out",
		},
		{
			name: "neither room nor type",
			req: ReservationRequest{
				CheckIn: date(t, "2024-06-01"), CheckOut: date(t, "2024-06-04"),
				NumGuests: 2, GuestName: "Ann Smith",
			},
			field: "room_id",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.reservations.Reserve(ctx, tc.req)
			ve := IsValidationError(err)
			require.NotNil(t, ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestReserveRejectsInactiveRoom(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	inactive := false
	room, err := f.inventory.CreateRoom(context.Background(), RoomInput{
		RoomNumber: "101",
		RoomTypeID: double.ID,
		IsActive:   &inactive,
	})
	require.NoError(t, err)

	_, err = f.reservations.Reserve(context.Background(), ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-01"),
		CheckOut:  date(t, "2024-06-04"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})
	ve := IsValidationError(err)
	require.NotNil(t, ve)
	assert.Equal(t, "room_id", ve.Field)
}

func TestReserveByTypeFallsBackToNextRoom(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	r101 := f.addRoom(t, "101", double.ID)
	r102 := f.addRoom(t, "102", double.ID)

	f.reserve(t, ReservationRequest{
		RoomID:    r101.ID,
		CheckIn:   date(t, "2024-06-01"),
		CheckOut:  date(t, "2024-06-04"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})

	booking := f.reserve(t, ReservationRequest{
		RoomTypeID: double.ID,
		CheckIn:    date(t, "2024-06-01"),
		CheckOut:   date(t, "2024-06-04"),
		NumGuests:  2,
		GuestName:  "Bob Jones",
	})
	assert.Equal(t, r102.ID, booking.RoomID)

	// Both rooms taken now: a third attempt conflicts.
	_, err := f.reservations.Reserve(context.Background(), ReservationRequest{
		RoomTypeID: double.ID,
		CheckIn:    date(t, "2024-06-01"),
		CheckOut:   date(t, "2024-06-04"),
		NumGuests:  2,
		GuestName:  "Cara Diaz",
	})
	assert.ErrorIs(t, err, ErrRoomConflict)
}

func TestReserveConcurrentSameRoomSingleWinner(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	var wins, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		i := i
		g.Go(func() error {
			_, err := f.reservations.Reserve(context.Background(), ReservationRequest{
				RoomID:    room.ID,
				CheckIn:   date(t, "2024-06-01"),
				CheckOut:  date(t, "2024-06-04"),
				NumGuests: 2,
				GuestName: fmt.Sprintf("Guest %d", i),
			})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrRoomConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(9), conflicts.Load())

	bookings, err := f.store.BookingsForRoom(context.Background(), room.ID, models.ActiveBookingStatuses)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestReserveConcurrentNoOverlapInvariant(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	// Staggered one-night and two-night stays over the same week, all
	// racing on one room. Whatever subset commits, no two committed
	// stays may share a night.
	var g errgroup.Group
	for i := 0; i < 12; i++ {
		i := i
		g.Go(func() error {
			in := date(t, "2024-06-01").AddDate(0, 0, i%6)
			out := in.AddDate(0, 0, 1+i%2)
			_, err := f.reservations.Reserve(context.Background(), ReservationRequest{
				RoomID:    room.ID,
				CheckIn:   in,
				CheckOut:  out,
				NumGuests: 2,
				GuestName: fmt.Sprintf("Guest %d", i),
			})
			if err != nil && !errors.Is(err, ErrRoomConflict) {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	bookings, err := f.store.BookingsForRoom(context.Background(), room.ID, models.ActiveBookingStatuses)
	require.NoError(t, err)
	require.NotEmpty(t, bookings)
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			assert.False(t, bookings[i].Overlaps(bookings[j].CheckIn, bookings[j].CheckOut),
				"bookings %s and %s overlap", bookings[i].ReferenceCode, bookings[j].ReferenceCode)
		}
	}
}

func TestReserveAppliesPromoDiscount(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)
	f.addPromo(t, PromoCodeInput{
		Code: "SUMMER10", DiscountType: "percentage", DiscountValue: 10,
		ValidFrom: "2024-01-01", ValidTo: "2024-12-31",
	})

	booking := f.reserve(t, ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-01"),
		CheckOut:  date(t, "2024-06-04"),
		NumGuests: 2,
		GuestName: "Ann Smith",
		PromoCode: "SUMMER10",
	})
	assert.Equal(t, 5400.0, booking.TotalPrice)

	promo, err := f.store.PromoByCode(context.Background(), "SUMMER10")
	require.NoError(t, err)
	assert.Equal(t, 1, promo.TimesUsed)
}

func TestReserveInvalidPromoCommitsUndiscounted(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)
	f.addPromo(t, PromoCodeInput{
		Code: "EXPIRED", DiscountType: "percentage", DiscountValue: 10,
		ValidFrom: "2023-01-01", ValidTo: "2023-12-31",
	})

	for _, code := range []string{"EXPIRED", "NOSUCHCODE"} {
		booking := f.reserve(t, ReservationRequest{
			RoomID:    room.ID,
			CheckIn:   date(t, "2024-06-01"),
			CheckOut:  date(t, "2024-06-04"),
			NumGuests: 2,
			GuestName: "Ann Smith",
			PromoCode: code,
		})
		assert.Equal(t, 6000.0, booking.TotalPrice, code)
		require.NoError(t, f.lifecycle.SetStatus(context.Background(), booking.ID, models.BookingCancelled, Actor{Name: "desk", Staff: true}))
	}
}

func TestReserveConcurrentPromoCapSingleDiscount(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	one := 1
	f.addPromo(t, PromoCodeInput{
		Code: "ONEUSE", DiscountType: "percentage", DiscountValue: 10,
		ValidFrom: "2024-01-01", ValidTo: "2024-12-31", MaxUses: &one,
	})

	rooms := make([]*models.Room, 10)
	for i := range rooms {
		rooms[i] = f.addRoom(t, fmt.Sprintf("1%02d", i), double.ID)
	}

	results := make([]*models.Booking, 10)
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		i := i
		g.Go(func() error {
			booking, err := f.reservations.Reserve(context.Background(), ReservationRequest{
				RoomID:    rooms[i].ID,
				CheckIn:   date(t, "2024-06-01"),
				CheckOut:  date(t, "2024-06-04"),
				NumGuests: 2,
				GuestName: fmt.Sprintf("Guest %d", i),
				PromoCode: "ONEUSE",
			})
			if err != nil {
				return err
			}
			results[i] = booking
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// All ten commit; exactly one gets the discount.
	discounted := 0
	for _, booking := range results {
		require.NotNil(t, booking)
		switch booking.TotalPrice {
		case 5400.0:
			discounted++
		case 6000.0:
		default:
			t.Fatalf("unexpected total %v", booking.TotalPrice)
		}
	}
	assert.Equal(t, 1, discounted)

	promo, err := f.store.PromoByCode(context.Background(), "ONEUSE")
	require.NoError(t, err)
	assert.Equal(t, 1, promo.TimesUsed)
}

func TestReserveUnknownRoom(t *testing.T) {
	f := newFixture("2024-05-01")
	_, err := f.reservations.Reserve(context.Background(), ReservationRequest{
		RoomID:    42,
		CheckIn:   date(t, "2024-06-01"),
		CheckOut:  date(t, "2024-06-04"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
