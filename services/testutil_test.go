package services

import (
	"context"
	"testing"
	"time"

	"hotel-core/models"
	"hotel-core/utils"

	"github.com/stretchr/testify/require"
)

// The fixture runs every service against a MemoryStore with the clock
// pinned, so date arithmetic in tests is deterministic.

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func testClock(s string) func() time.Time {
	d, _ := utils.ParseDate(s)
	return func() time.Time { return d }
}

type fixture struct {
	store        *MemoryStore
	inventory    *InventoryService
	pricing      *PricingService
	availability *AvailabilityService
	reservations *ReservationService
	lifecycle    *LifecycleService
}

func newFixture(today string) *fixture {
	store := NewMemoryStore()

	pricing := NewPricingService(store)
	pricing.Now = testClock(today)

	availability := NewAvailabilityService(store)
	availability.Now = testClock(today)

	reservations := NewReservationService(store, pricing, availability)
	reservations.Now = testClock(today)

	lifecycle := NewLifecycleService(store)
	lifecycle.Now = testClock(today)

	return &fixture{
		store:        store,
		inventory:    NewInventoryService(store),
		pricing:      pricing,
		availability: availability,
		reservations: reservations,
		lifecycle:    lifecycle,
	}
}

func (f *fixture) addRoomType(t *testing.T, name string, basePrice float64, capacity int, amenities ...string) *models.RoomType {
	t.Helper()
	rt, err := f.inventory.CreateRoomType(context.Background(), RoomTypeInput{
		Name:      name,
		BasePrice: basePrice,
		Capacity:  capacity,
		Amenities: amenities,
	})
	require.NoError(t, err)
	return rt
}

func (f *fixture) addRoom(t *testing.T, number string, roomTypeID uint) *models.Room {
	t.Helper()
	room, err := f.inventory.CreateRoom(context.Background(), RoomInput{
		RoomNumber: number,
		RoomTypeID: roomTypeID,
	})
	require.NoError(t, err)
	return room
}

func (f *fixture) addRate(t *testing.T, roomTypeID uint, start, end string, price float64) *models.RoomRate {
	t.Helper()
	rate, err := f.inventory.CreateRoomRate(context.Background(), RoomRateInput{
		RoomTypeID: roomTypeID,
		StartDate:  start,
		EndDate:    end,
		Price:      price,
	})
	require.NoError(t, err)
	return rate
}

func (f *fixture) addPromo(t *testing.T, in PromoCodeInput) *models.PromoCode {
	t.Helper()
	promo, err := f.inventory.CreatePromoCode(context.Background(), in)
	require.NoError(t, err)
	return promo
}

func (f *fixture) reserve(t *testing.T, req ReservationRequest) *models.Booking {
	t.Helper()
	booking, err := f.reservations.Reserve(context.Background(), req)
	require.NoError(t, err)
	return booking
}
