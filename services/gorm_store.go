package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-core/models"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of a MySQL-backed *gorm.DB. The
// per-room exclusive scope is a transaction holding SELECT ... FOR
// UPDATE on the room row, so two commits for the same room can never
// interleave their check-then-insert steps while unrelated rooms stay
// unaffected.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// writeErr converts MySQL duplicate-entry (1062) into ErrDuplicateKey so
// callers can retry generated identifiers.
func writeErr(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrDuplicateKey
	}
	return err
}

// ---- room types ----

func (s *GormStore) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	return writeErr(s.DB.WithContext(ctx).Create(rt).Error)
}

func (s *GormStore) RoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (s *GormStore) RoomTypeByName(ctx context.Context, name string) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&rt).Error; err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (s *GormStore) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	return types, nil
}

func (s *GormStore) UpdateRoomType(ctx context.Context, rt *models.RoomType) error {
	res := s.DB.WithContext(ctx).Model(&models.RoomType{}).Where("id = ?", rt.ID).
		Select("Name", "Description", "BasePrice", "Capacity", "Amenities").Updates(rt)
	if res.Error != nil {
		return writeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- rooms ----

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return writeErr(s.DB.WithContext(ctx).Create(room).Error)
}

func (s *GormStore) RoomByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *GormStore) RoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).Preload("RoomType").
		Where("room_number = ?", number).First(&room).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *GormStore) ListRooms(ctx context.Context, filter RoomFilter) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Model(&models.Room{}).Preload("RoomType")

	if filter.Amenity != "" {
		// Amenities live on room_types as a JSON array; resolve the
		// matching type ids first to keep the rooms query single-table.
		var typeIDs []uint
		err := s.DB.WithContext(ctx).Model(&models.RoomType{}).
			Where(datatypes.JSONArrayQuery("amenities").Contains(filter.Amenity)).
			Pluck("id", &typeIDs).Error
		if err != nil {
			return nil, fmt.Errorf("resolve amenity %q: %w", filter.Amenity, err)
		}
		if len(typeIDs) == 0 {
			return []models.Room{}, nil
		}
		q = q.Where("room_type_id IN ?", typeIDs)
	}
	if filter.RoomTypeID != 0 {
		q = q.Where("room_type_id = ?", filter.RoomTypeID)
	}
	if filter.MinCapacity > 0 {
		q = q.Where("room_type_id IN (?)",
			s.DB.Model(&models.RoomType{}).Select("id").Where("capacity >= ?", filter.MinCapacity))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var rooms []models.Room
	if err := q.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *GormStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	res := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", room.ID).
		Select("RoomNumber", "RoomTypeID", "Floor", "Status", "IsActive").Updates(room)
	if res.Error != nil {
		return writeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- seasonal rates ----

func (s *GormStore) CreateRoomRate(ctx context.Context, rate *models.RoomRate) error {
	return writeErr(s.DB.WithContext(ctx).Create(rate).Error)
}

func (s *GormStore) RatesForRoomType(ctx context.Context, roomTypeID uint) ([]models.RoomRate, error) {
	var rates []models.RoomRate
	err := s.DB.WithContext(ctx).
		Where("room_type_id = ?", roomTypeID).
		Order("start_date DESC, id DESC").
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("rates for room type %d: %w", roomTypeID, err)
	}
	return rates, nil
}

// ---- promo codes ----

func (s *GormStore) CreatePromoCode(ctx context.Context, promo *models.PromoCode) error {
	return writeErr(s.DB.WithContext(ctx).Create(promo).Error)
}

func (s *GormStore) PromoByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := s.DB.WithContext(ctx).Where("code = ?", code).First(&promo).Error; err != nil {
		return nil, notFound(err)
	}
	return &promo, nil
}

// ConsumePromo grants a use via a guarded increment: the WHERE clause
// re-checks validity and cap inside the same statement, so N racing
// consumers can never push times_used past max_uses.
func (s *GormStore) ConsumePromo(ctx context.Context, id uint, today time.Time) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.PromoCode{}).
		Where("id = ? AND is_active = ?", id, true).
		Where("valid_from <= ? AND valid_to >= ?", today, today).
		Where("max_uses IS NULL OR times_used < max_uses").
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return false, fmt.Errorf("consume promo %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ---- bookings ----

func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return writeErr(s.DB.WithContext(ctx).Create(booking).Error)
}

func (s *GormStore) BookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Preload("Room.RoomType").First(&booking, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (s *GormStore) BookingsForRoom(ctx context.Context, roomID uint, statuses []string) ([]models.Booking, error) {
	q := s.DB.WithContext(ctx).Where("room_id = ?", roomID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var bookings []models.Booking
	if err := q.Order("check_in ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("bookings for room %d: %w", roomID, err)
	}
	return bookings, nil
}

func (s *GormStore) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) (map[uint]bool, error) {
	var ids []uint
	err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Distinct("room_id").
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("booked rooms: %w", err)
	}
	booked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		booked[id] = true
	}
	return booked, nil
}

func (s *GormStore) HasOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("overlap check for room %d: %w", roomID, err)
	}
	return count > 0, nil
}

func (s *GormStore) UpdateBookingStatus(ctx context.Context, id uint, status string) error {
	res := s.DB.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- payments ----

func (s *GormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return writeErr(s.DB.WithContext(ctx).Create(payment).Error)
}

func (s *GormStore) PaymentByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.DB.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (s *GormStore) PaymentsForBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.DB.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("payments for booking %d: %w", bookingID, err)
	}
	return payments, nil
}

func (s *GormStore) UpdatePaymentStatus(ctx context.Context, id uint, status string) error {
	res := s.DB.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- scopes ----

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

func (s *GormStore) WithRoomLock(ctx context.Context, roomID uint, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock room %d: %w", roomID, err)
		}
		return fn(&GormStore{DB: tx})
	})
}
