package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hotel-core/models"

	"gorm.io/datatypes"
)

// InventoryService is the read side of the room inventory plus the
// staff-facing CRUD for room types, rooms, seasonal rates and promo
// codes. Lookups have no side effects; unknown identifiers come back as
// ErrNotFound.
type InventoryService struct {
	store Store
}

func NewInventoryService(store Store) *InventoryService {
	return &InventoryService{store: store}
}

// RoomTypeInput is the staff payload for creating or updating a type.
type RoomTypeInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BasePrice   float64  `json:"base_price"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
}

func (in RoomTypeInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if in.BasePrice < 0 {
		return &ValidationError{Field: "base_price", Reason: "must not be negative"}
	}
	if in.Capacity < models.MinCapacity || in.Capacity > models.MaxCapacity {
		return &ValidationError{
			Field:  "capacity",
			Reason: fmt.Sprintf("must be between %d and %d", models.MinCapacity, models.MaxCapacity),
		}
	}
	return nil
}

func amenitiesJSON(names []string) (datatypes.JSON, error) {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("encode amenities: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func (s *InventoryService) CreateRoomType(ctx context.Context, in RoomTypeInput) (*models.RoomType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	amenities, err := amenitiesJSON(in.Amenities)
	if err != nil {
		return nil, err
	}
	rt := &models.RoomType{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		BasePrice:   in.BasePrice,
		Capacity:    in.Capacity,
		Amenities:   amenities,
	}
	if err := s.store.CreateRoomType(ctx, rt); err != nil {
		if err == ErrDuplicateKey {
			return nil, &ValidationError{Field: "name", Reason: "already exists"}
		}
		return nil, fmt.Errorf("create room type: %w", err)
	}
	return rt, nil
}

// UpdateRoomType changes the mutable attributes of a type. Name is the
// immutable identity and must match the stored record.
func (s *InventoryService) UpdateRoomType(ctx context.Context, id uint, in RoomTypeInput) (*models.RoomType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	rt, err := s.store.RoomTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(rt.Name, strings.TrimSpace(in.Name)) {
		return nil, &ValidationError{Field: "name", Reason: "room type name is immutable"}
	}
	amenities, err := amenitiesJSON(in.Amenities)
	if err != nil {
		return nil, err
	}
	rt.Description = in.Description
	rt.BasePrice = in.BasePrice
	rt.Capacity = in.Capacity
	rt.Amenities = amenities
	if err := s.store.UpdateRoomType(ctx, rt); err != nil {
		return nil, fmt.Errorf("update room type %d: %w", id, err)
	}
	return rt, nil
}

func (s *InventoryService) RoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error) {
	return s.store.RoomTypeByID(ctx, id)
}

func (s *InventoryService) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	return s.store.ListRoomTypes(ctx)
}

// RoomInput is the staff payload for creating or updating a room.
type RoomInput struct {
	RoomNumber string `json:"room_number"`
	RoomTypeID uint   `json:"room_type_id"`
	Floor      *int   `json:"floor"`
	Status     string `json:"status"`
	IsActive   *bool  `json:"is_active"`
}

func (s *InventoryService) CreateRoom(ctx context.Context, in RoomInput) (*models.Room, error) {
	if strings.TrimSpace(in.RoomNumber) == "" {
		return nil, &ValidationError{Field: "room_number", Reason: "required"}
	}
	if _, err := s.store.RoomTypeByID(ctx, in.RoomTypeID); err != nil {
		if err == ErrNotFound {
			return nil, &ValidationError{Field: "room_type_id", Reason: "unknown room type"}
		}
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.RoomAvailable
	}
	if !models.ValidRoomStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "unknown room status"}
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	room := &models.Room{
		RoomNumber: strings.TrimSpace(in.RoomNumber),
		RoomTypeID: in.RoomTypeID,
		Floor:      in.Floor,
		Status:     status,
		IsActive:   active,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		if err == ErrDuplicateKey {
			return nil, &ValidationError{Field: "room_number", Reason: "already exists"}
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	return room, nil
}

// SetRoomStatus flips the operational status (maintenance, blocked, ...).
// It does not touch bookings: occupancy is derived, not stored here.
func (s *InventoryService) SetRoomStatus(ctx context.Context, roomID uint, status string) (*models.Room, error) {
	if !models.ValidRoomStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "unknown room status"}
	}
	room, err := s.store.RoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room.Status = status
	if err := s.store.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("update room %d: %w", roomID, err)
	}
	return room, nil
}

func (s *InventoryService) RoomByID(ctx context.Context, id uint) (*models.Room, error) {
	return s.store.RoomByID(ctx, id)
}

func (s *InventoryService) RoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	return s.store.RoomByNumber(ctx, number)
}

func (s *InventoryService) ListRooms(ctx context.Context, filter RoomFilter) ([]models.Room, error) {
	return s.store.ListRooms(ctx, filter)
}

// RoomsWithAmenity lists active rooms whose type carries the amenity.
func (s *InventoryService) RoomsWithAmenity(ctx context.Context, amenity string) ([]models.Room, error) {
	if strings.TrimSpace(amenity) == "" {
		return nil, &ValidationError{Field: "amenity", Reason: "required"}
	}
	return s.store.ListRooms(ctx, RoomFilter{Amenity: amenity, ActiveOnly: true})
}

// RoomRateInput is the staff payload for a seasonal override.
type RoomRateInput struct {
	RoomTypeID uint    `json:"room_type_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Price      float64 `json:"price"`
	Reason     string  `json:"reason"`
}

func (s *InventoryService) CreateRoomRate(ctx context.Context, in RoomRateInput) (*models.RoomRate, error) {
	start, err := parseDateField(in.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDateField(in.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}
	if in.Price < 0 {
		return nil, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if _, err := s.store.RoomTypeByID(ctx, in.RoomTypeID); err != nil {
		if err == ErrNotFound {
			return nil, &ValidationError{Field: "room_type_id", Reason: "unknown room type"}
		}
		return nil, err
	}
	rate := &models.RoomRate{
		RoomTypeID: in.RoomTypeID,
		StartDate:  start,
		EndDate:    end,
		Price:      in.Price,
		Reason:     in.Reason,
	}
	if err := s.store.CreateRoomRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("create room rate: %w", err)
	}
	return rate, nil
}

func (s *InventoryService) RatesForRoomType(ctx context.Context, roomTypeID uint) ([]models.RoomRate, error) {
	return s.store.RatesForRoomType(ctx, roomTypeID)
}

// PromoCodeInput is the staff payload for a promotional code.
type PromoCodeInput struct {
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	ValidFrom     string  `json:"valid_from"`
	ValidTo       string  `json:"valid_to"`
	MaxUses       *int    `json:"max_uses"`
}

func (s *InventoryService) CreatePromoCode(ctx context.Context, in PromoCodeInput) (*models.PromoCode, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, &ValidationError{Field: "code", Reason: "required"}
	}
	if in.DiscountType != models.DiscountFixed && in.DiscountType != models.DiscountPercentage {
		return nil, &ValidationError{Field: "discount_type", Reason: "must be fixed or percentage"}
	}
	if in.DiscountValue <= 0 {
		return nil, &ValidationError{Field: "discount_value", Reason: "must be positive"}
	}
	if in.DiscountType == models.DiscountPercentage && in.DiscountValue > 100 {
		return nil, &ValidationError{Field: "discount_value", Reason: "percentage cannot exceed 100"}
	}
	from, err := parseDateField(in.ValidFrom, "valid_from")
	if err != nil {
		return nil, err
	}
	to, err := parseDateField(in.ValidTo, "valid_to")
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, &ValidationError{Field: "valid_to", Reason: "must not precede valid_from"}
	}
	if in.MaxUses != nil && *in.MaxUses <= 0 {
		return nil, &ValidationError{Field: "max_uses", Reason: "must be positive when set"}
	}
	promo := &models.PromoCode{
		Code:          strings.ToUpper(strings.TrimSpace(in.Code)),
		Description:   in.Description,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		ValidFrom:     from,
		ValidTo:       to,
		IsActive:      true,
		MaxUses:       in.MaxUses,
	}
	if err := s.store.CreatePromoCode(ctx, promo); err != nil {
		if err == ErrDuplicateKey {
			return nil, &ValidationError{Field: "code", Reason: "already exists"}
		}
		return nil, fmt.Errorf("create promo code: %w", err)
	}
	return promo, nil
}

func (s *InventoryService) PromoByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	return s.store.PromoByCode(ctx, code)
}
