package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-core/models"
)

func TestFindAvailableExcludesOverlappingBookings(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	r101 := f.addRoom(t, "101", double.ID)
	r102 := f.addRoom(t, "102", double.ID)

	f.reserve(t, ReservationRequest{
		RoomID:    r101.ID,
		CheckIn:   date(t, "2024-06-02"),
		CheckOut:  date(t, "2024-06-05"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})

	free, err := f.availability.FindAvailable(context.Background(), double.ID, 0, date(t, "2024-06-01"), date(t, "2024-06-04"))
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, r102.ID, free[0].ID)
}

func TestFindAvailableHalfOpenBoundary(t *testing.T) {
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

	// Checkout on 06-03 never blocks a check-in on 06-03.
	free, err := f.availability.FindAvailable(context.Background(), double.ID, 0, date(t, "2024-06-03"), date(t, "2024-06-05"))
	require.NoError(t, err)
	require.Len(t, free, 1)

	// The stayed night itself does block.
	free, err = f.availability.FindAvailable(context.Background(), double.ID, 0, date(t, "2024-06-01"), date(t, "2024-06-03"))
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFindAvailableIgnoresCancelledBookings(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	booking := f.reserve(t, ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-02"),
		CheckOut:  date(t, "2024-06-05"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})
	require.NoError(t, f.lifecycle.Cancel(context.Background(), booking.ID))

	free, err := f.availability.FindAvailable(context.Background(), double.ID, 0, date(t, "2024-06-02"), date(t, "2024-06-05"))
	require.NoError(t, err)
	assert.Len(t, free, 1)
}

func TestFindAvailableValidatesDates(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	f.addRoom(t, "101", double.ID)

	ctx := context.Background()

	_, err := f.availability.FindAvailable(ctx, double.ID, 0, date(t, "2024-06-04"), date(t, "2024-06-01"))
	ve := IsValidationError(err)
	require.NotNil(t, ve)
	assert.Equal(t, "check_out", ve.Field)

	_, err = f.availability.FindAvailable(ctx, double.ID, 0, date(t, "2024-04-20"), date(t, "2024-04-25"))
	ve = IsValidationError(err)
	require.NotNil(t, ve)
	assert.Equal(t, "check_in", ve.Field)
}

func TestFindAvailableFilters(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	suite := f.addRoomType(t, "Suite", 3500, 6)
	f.addRoom(t, "101", double.ID)
	s501 := f.addRoom(t, "501", suite.ID)

	ctx := context.Background()
	in, out := date(t, "2024-06-01"), date(t, "2024-06-04")

	// Type filter.
	free, err := f.availability.FindAvailable(ctx, suite.ID, 0, in, out)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, s501.ID, free[0].ID)

	// Capacity filter crosses types.
	free, err = f.availability.FindAvailable(ctx, 0, 4, in, out)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, s501.ID, free[0].ID)
}

func TestFindAvailableSkipsInactiveRooms(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	inactive := false
	_, err := f.inventory.CreateRoom(context.Background(), RoomInput{
		RoomNumber: "101",
		RoomTypeID: double.ID,
		IsActive:   &inactive,
	})
	require.NoError(t, err)

	free, err := f.availability.FindAvailable(context.Background(), double.ID, 0, date(t, "2024-06-01"), date(t, "2024-06-04"))
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestIsConflicting(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	booking := f.reserve(t, ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-02"),
		CheckOut:  date(t, "2024-06-05"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})

	ctx := context.Background()

	conflict, err := f.availability.IsConflicting(ctx, room.ID, date(t, "2024-06-01"), date(t, "2024-06-03"), 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	// Excluding the booking itself clears the conflict: re-validating an
	// existing booking's own range must not self-collide.
	conflict, err = f.availability.IsConflicting(ctx, room.ID, date(t, "2024-06-01"), date(t, "2024-06-03"), booking.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	_, err = f.availability.IsConflicting(ctx, 42, date(t, "2024-06-01"), date(t, "2024-06-03"), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsConflictingStatusScope(t *testing.T) {
	f := newFixture("2024-05-01")
	double := f.addRoomType(t, "Double", 2000, 2)
	room := f.addRoom(t, "101", double.ID)

	booking := f.reserve(t, ReservationRequest{
		RoomID:    room.ID,
		CheckIn:   date(t, "2024-06-02"),
		CheckOut:  date(t, "2024-06-05"),
		NumGuests: 2,
		GuestName: "Ann Smith",
	})

	ctx := context.Background()
	staff := Actor{Name: "front-desk", Staff: true}

	// Confirmed and checked-in bookings still block.
	require.NoError(t, f.lifecycle.SetStatus(ctx, booking.ID, models.BookingConfirmed, staff))
	conflict, err := f.availability.IsConflicting(ctx, room.ID, date(t, "2024-06-02"), date(t, "2024-06-05"), 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	require.NoError(t, f.lifecycle.SetStatus(ctx, booking.ID, models.BookingCheckedIn, staff))
	conflict, err = f.availability.IsConflicting(ctx, room.ID, date(t, "2024-06-02"), date(t, "2024-06-05"), 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	// Checked-out releases the range.
	require.NoError(t, f.lifecycle.SetStatus(ctx, booking.ID, models.BookingCheckedOut, staff))
	conflict, err = f.availability.IsConflicting(ctx, room.ID, date(t, "2024-06-02"), date(t, "2024-06-05"), 0)
	require.NoError(t, err)
	assert.False(t, conflict)
}
