package services

import (
	"context"
	"time"

	"hotel-core/models"
)

// RoomFilter narrows room listings. Zero values mean "no filter".
type RoomFilter struct {
	RoomTypeID  uint
	MinCapacity int
	Amenity     string
	Status      string
	ActiveOnly  bool
}

// Store is the persistence contract the services are written against.
// Implementations must make WithRoomLock mutually exclusive per room so
// the reservation coordinator can treat check+insert as one atomic unit,
// and must guarantee release on every exit path. GormStore backs it with
// MySQL row locks, MemoryStore with a per-room mutex registry.
type Store interface {
	// room types
	CreateRoomType(ctx context.Context, rt *models.RoomType) error
	RoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error)
	RoomTypeByName(ctx context.Context, name string) (*models.RoomType, error)
	ListRoomTypes(ctx context.Context) ([]models.RoomType, error)
	UpdateRoomType(ctx context.Context, rt *models.RoomType) error

	// rooms
	CreateRoom(ctx context.Context, room *models.Room) error
	RoomByID(ctx context.Context, id uint) (*models.Room, error)
	RoomByNumber(ctx context.Context, number string) (*models.Room, error)
	ListRooms(ctx context.Context, filter RoomFilter) ([]models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error

	// seasonal rates
	CreateRoomRate(ctx context.Context, rate *models.RoomRate) error
	RatesForRoomType(ctx context.Context, roomTypeID uint) ([]models.RoomRate, error)

	// promo codes
	CreatePromoCode(ctx context.Context, promo *models.PromoCode) error
	PromoByCode(ctx context.Context, code string) (*models.PromoCode, error)
	// ConsumePromo atomically increments the usage counter iff the code
	// is still valid on the given day and under its cap. It reports
	// whether the use was granted; racing past the cap must be
	// impossible.
	ConsumePromo(ctx context.Context, id uint, today time.Time) (bool, error)

	// bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	BookingByID(ctx context.Context, id uint) (*models.Booking, error)
	BookingsForRoom(ctx context.Context, roomID uint, statuses []string) ([]models.Booking, error)
	// BookedRoomIDs returns the rooms holding an active booking that
	// overlaps the half-open range [checkIn, checkOut).
	BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) (map[uint]bool, error)
	HasOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error)
	UpdateBookingStatus(ctx context.Context, id uint, status string) error

	// payments
	CreatePayment(ctx context.Context, payment *models.Payment) error
	PaymentByID(ctx context.Context, id uint) (*models.Payment, error)
	PaymentsForBooking(ctx context.Context, bookingID uint) ([]models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status string) error

	// WithTx runs fn against a transactional view of the store; on a
	// non-nil error nothing fn wrote survives.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	// WithRoomLock is WithTx plus an exclusive scope on one room. It
	// never blocks commits on unrelated rooms.
	WithRoomLock(ctx context.Context, roomID uint, fn func(tx Store) error) error
}
