package controllers

import (
	"net/http"

	"hotel-core/services"
	"hotel-core/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Reservations *services.ReservationService
	Lifecycle    *services.LifecycleService
	Pricing      *services.PricingService
}

func NewBookingController(
	reservations *services.ReservationService,
	lifecycle *services.LifecycleService,
	pricing *services.PricingService,
) *BookingController {
	return &BookingController{Reservations: reservations, Lifecycle: lifecycle, Pricing: pricing}
}

// ---------------------------
// Payload / DTOs
// ---------------------------

type QuoteRequest struct {
	RoomTypeID uint   `json:"room_type_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	PromoCode  string `json:"promo_code"`
}

type ReserveRequest struct {
	RoomID     uint   `json:"room_id"`
	RoomTypeID uint   `json:"room_type_id"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	NumGuests  int    `json:"num_guests" binding:"required"`
	GuestName  string `json:"guest_name" binding:"required"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	UserID     *uint  `json:"user_id"` // absent for walk-ins
	PromoCode  string `json:"promo_code"`
	Notes      string `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ---------------------------
// Handlers
// ---------------------------

// Quote handles POST /api/quotes: per-night breakdown, total and
// whether the promo would apply. Nothing is reserved or consumed.
func (bc *BookingController) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_in: invalid date, want YYYY-MM-DD")
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_out: invalid date, want YYYY-MM-DD")
		return
	}

	quote, err := bc.Pricing.QuoteStay(c.Request.Context(), req.RoomTypeID, checkIn, checkOut, req.PromoCode)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}

// Reserve handles POST /api/bookings — the single entry point for
// booking creation.
func (bc *BookingController) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_in: invalid date, want YYYY-MM-DD")
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_out: invalid date, want YYYY-MM-DD")
		return
	}

	booking, err := bc.Reservations.Reserve(c.Request.Context(), services.ReservationRequest{
		RoomID:     req.RoomID,
		RoomTypeID: req.RoomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		NumGuests:  req.NumGuests,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		UserID:     req.UserID,
		PromoCode:  req.PromoCode,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

func (bc *BookingController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Lifecycle.Booking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// Cancel handles POST /api/bookings/:id/cancel (guest-facing cutoff
// rule applies).
func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := bc.Lifecycle.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"cancelled": true})
}

// SetStatus handles PATCH /api/bookings/:id/status (staff only).
func (bc *BookingController) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}
	if err := bc.Lifecycle.SetStatus(c.Request.Context(), id, req.Status, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	booking, err := bc.Lifecycle.Booking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// RecordPayment handles POST /api/bookings/:id/payments. A completed
// payment on a pending booking confirms it.
func (bc *BookingController) RecordPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	payment, err := bc.Lifecycle.RecordPayment(c.Request.Context(), id, req.Amount, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, payment)
}

func (bc *BookingController) ListPayments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payments, err := bc.Lifecycle.Payments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

// RefundPayment handles POST /api/payments/:id/refund (staff only).
func (bc *BookingController) RefundPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := bc.Lifecycle.RefundPayment(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"refunded": true})
}
