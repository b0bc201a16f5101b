package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-core/models"
)

// MemoryStore implements Store with mutex-guarded maps. It backs the
// test suite and the dependency-free dev mode (STORE_DRIVER=memory).
// Per-room exclusion comes from a lock registry keyed by room id, so
// commits for different rooms proceed in parallel.
type MemoryStore struct {
	mu sync.RWMutex

	roomTypes map[uint]models.RoomType
	rooms     map[uint]models.Room
	rates     map[uint]models.RoomRate
	promos    map[uint]models.PromoCode
	bookings  map[uint]models.Booking
	payments  map[uint]models.Payment
	nextID    map[string]uint

	// txMu serializes multi-step write scopes so WithTx callers never
	// interleave. Reads take only mu.
	txMu sync.Mutex

	locksMu   sync.Mutex
	roomLocks map[uint]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roomTypes: make(map[uint]models.RoomType),
		rooms:     make(map[uint]models.Room),
		rates:     make(map[uint]models.RoomRate),
		promos:    make(map[uint]models.PromoCode),
		bookings:  make(map[uint]models.Booking),
		payments:  make(map[uint]models.Payment),
		nextID:    make(map[string]uint),
		roomLocks: make(map[uint]*sync.Mutex),
	}
}

func (s *MemoryStore) allocID(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *MemoryStore) roomLock(roomID uint) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.roomLocks[roomID] = l
	}
	return l
}

// ---- room types ----

func (s *MemoryStore) CreateRoomType(_ context.Context, rt *models.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roomTypes {
		if strings.EqualFold(existing.Name, rt.Name) {
			return ErrDuplicateKey
		}
	}
	rt.ID = s.allocID("room_types")
	rt.CreatedAt = time.Now().UTC()
	s.roomTypes[rt.ID] = *rt
	return nil
}

func (s *MemoryStore) RoomTypeByID(_ context.Context, id uint) (*models.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rt, nil
}

func (s *MemoryStore) RoomTypeByName(_ context.Context, name string) (*models.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rt := range s.roomTypes {
		if strings.EqualFold(rt.Name, name) {
			out := rt
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListRoomTypes(_ context.Context) ([]models.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RoomType, 0, len(s.roomTypes))
	for _, rt := range s.roomTypes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) UpdateRoomType(_ context.Context, rt *models.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roomTypes[rt.ID]; !ok {
		return ErrNotFound
	}
	s.roomTypes[rt.ID] = *rt
	return nil
}

// ---- rooms ----

func (s *MemoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rooms {
		if existing.RoomNumber == room.RoomNumber {
			return ErrDuplicateKey
		}
	}
	room.ID = s.allocID("rooms")
	room.CreatedAt = time.Now().UTC()
	s.rooms[room.ID] = *room
	return nil
}

func (s *MemoryStore) RoomByID(_ context.Context, id uint) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	room.RoomType = s.roomTypes[room.RoomTypeID]
	return &room, nil
}

func (s *MemoryStore) RoomByNumber(_ context.Context, number string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		if room.RoomNumber == number {
			room.RoomType = s.roomTypes[room.RoomTypeID]
			return &room, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListRooms(_ context.Context, filter RoomFilter) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rt := s.roomTypes[room.RoomTypeID]
		if filter.RoomTypeID != 0 && room.RoomTypeID != filter.RoomTypeID {
			continue
		}
		if filter.MinCapacity > 0 && rt.Capacity < filter.MinCapacity {
			continue
		}
		if filter.Status != "" && room.Status != filter.Status {
			continue
		}
		if filter.ActiveOnly && !room.IsActive {
			continue
		}
		if filter.Amenity != "" && !amenityListContains(rt.Amenities, filter.Amenity) {
			continue
		}
		room.RoomType = rt
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *MemoryStore) UpdateRoom(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return ErrNotFound
	}
	stored := *room
	stored.RoomType = models.RoomType{}
	s.rooms[room.ID] = stored
	return nil
}

// ---- seasonal rates ----

func (s *MemoryStore) CreateRoomRate(_ context.Context, rate *models.RoomRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rate.ID = s.allocID("room_rates")
	rate.CreatedAt = time.Now().UTC()
	s.rates[rate.ID] = *rate
	return nil
}

func (s *MemoryStore) RatesForRoomType(_ context.Context, roomTypeID uint) ([]models.RoomRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.RoomRate
	for _, rate := range s.rates {
		if rate.RoomTypeID == roomTypeID {
			out = append(out, rate)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// ---- promo codes ----

func (s *MemoryStore) CreatePromoCode(_ context.Context, promo *models.PromoCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.promos {
		if strings.EqualFold(existing.Code, promo.Code) {
			return ErrDuplicateKey
		}
	}
	promo.ID = s.allocID("promo_codes")
	promo.CreatedAt = time.Now().UTC()
	s.promos[promo.ID] = *promo
	return nil
}

func (s *MemoryStore) PromoByCode(_ context.Context, code string) (*models.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, promo := range s.promos {
		if strings.EqualFold(promo.Code, code) {
			out := promo
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ConsumePromo(_ context.Context, id uint, today time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	promo, ok := s.promos[id]
	if !ok {
		return false, ErrNotFound
	}
	if !promo.ValidOn(today) {
		return false, nil
	}
	promo.TimesUsed++
	s.promos[id] = promo
	return true, nil
}

// ---- bookings ----

func (s *MemoryStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.ReferenceCode == booking.ReferenceCode {
			return ErrDuplicateKey
		}
	}
	booking.ID = s.allocID("bookings")
	booking.CreatedAt = time.Now().UTC()
	stored := *booking
	stored.Room = models.Room{}
	s.bookings[booking.ID] = stored
	return nil
}

func (s *MemoryStore) BookingByID(_ context.Context, id uint) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	room := s.rooms[booking.RoomID]
	room.RoomType = s.roomTypes[room.RoomTypeID]
	booking.Room = room
	return &booking, nil
}

func (s *MemoryStore) BookingsForRoom(_ context.Context, roomID uint, statuses []string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, booking := range s.bookings {
		if booking.RoomID != roomID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, booking.Status) {
			continue
		}
		out = append(out, booking)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (s *MemoryStore) BookedRoomIDs(_ context.Context, checkIn, checkOut time.Time) (map[uint]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	booked := make(map[uint]bool)
	for _, booking := range s.bookings {
		if containsStatus(models.ActiveBookingStatuses, booking.Status) && booking.Overlaps(checkIn, checkOut) {
			booked[booking.RoomID] = true
		}
	}
	return booked, nil
}

func (s *MemoryStore) HasOverlap(_ context.Context, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, booking := range s.bookings {
		if booking.RoomID != roomID || booking.ID == excludeBookingID {
			continue
		}
		if containsStatus(models.ActiveBookingStatuses, booking.Status) && booking.Overlaps(checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) UpdateBookingStatus(_ context.Context, id uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	s.bookings[id] = booking
	return nil
}

// ---- payments ----

func (s *MemoryStore) CreatePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment.ID = s.allocID("payments")
	payment.CreatedAt = time.Now().UTC()
	s.payments[payment.ID] = *payment
	return nil
}

func (s *MemoryStore) PaymentByID(_ context.Context, id uint) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payment, ok := s.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &payment, nil
}

func (s *MemoryStore) PaymentsForBooking(_ context.Context, bookingID uint) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Payment
	for _, payment := range s.payments {
		if payment.BookingID == bookingID {
			out = append(out, payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdatePaymentStatus(_ context.Context, id uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[id]
	if !ok {
		return ErrNotFound
	}
	payment.Status = status
	s.payments[id] = payment
	return nil
}

// ---- scopes ----

// WithTx serializes against other write scopes. Single-process maps
// have no rollback; services order their writes so a failure leaves no
// partial state (the gorm implementation additionally rolls back).
func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s)
}

func (s *MemoryStore) WithRoomLock(ctx context.Context, roomID uint, fn func(tx Store) error) error {
	s.mu.RLock()
	_, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s)
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// amenityListContains scans a JSON string array for a name, matching
// the JSON_CONTAINS filter the gorm store uses.
func amenityListContains(raw []byte, amenity string) bool {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return false
	}
	for _, name := range names {
		if strings.EqualFold(name, amenity) {
			return true
		}
	}
	return false
}
