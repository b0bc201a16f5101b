package services

import (
	"context"
	"fmt"
	"time"

	"hotel-core/models"
	"hotel-core/utils"
)

// Actor is the explicit identity a caller acts under. There is no
// ambient "current user": privilege travels with every operation.
type Actor struct {
	Name  string
	Staff bool
}

// bookingTransitions is the legal status graph. The happy path is
// forward-only; cancelled is reachable from pending and confirmed only,
// and terminal states stay terminal — undoing a checkout or a
// cancellation means creating a new booking.
var bookingTransitions = map[string][]string{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingCheckedIn, models.BookingCancelled},
	models.BookingCheckedIn:  {models.BookingCheckedOut},
	models.BookingCheckedOut: {},
	models.BookingCancelled:  {},
}

// CanTransition reports whether from → to is a legal move.
func CanTransition(from, to string) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// LifecycleService owns every booking status mutation after creation,
// and reconciles booking status with recorded payments.
type LifecycleService struct {
	store Store

	Now func() time.Time
}

func NewLifecycleService(store Store) *LifecycleService {
	return &LifecycleService{store: store, Now: time.Now}
}

func (s *LifecycleService) today() time.Time {
	return utils.DateOnly(s.Now())
}

// Cancel applies the guest-facing cancellation rule: only pending or
// confirmed bookings, and only while check-in is more than one day
// away. A rejected cancel changes nothing and is safe to retry.
func (s *LifecycleService) Cancel(ctx context.Context, bookingID uint) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		booking, err := tx.BookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !booking.CancellableOn(s.today()) {
			return ErrNotCancellable
		}
		if err := tx.UpdateBookingStatus(ctx, bookingID, models.BookingCancelled); err != nil {
			return fmt.Errorf("cancel booking %d: %w", bookingID, err)
		}
		return nil
	})
}

// SetStatus is the staff-privileged transition operation. The target
// must be a member of the status enum and a legal transition from the
// current state; anything else is rejected without mutation. Staff
// cancellation through here is an override and skips the guest cutoff.
func (s *LifecycleService) SetStatus(ctx context.Context, bookingID uint, status string, actor Actor) error {
	if !actor.Staff {
		return ErrForbidden
	}
	if !models.ValidBookingStatus(status) {
		return &ValidationError{Field: "status", Reason: "unknown booking status"}
	}
	return s.store.WithTx(ctx, func(tx Store) error {
		booking, err := tx.BookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status == status {
			return nil // idempotent no-op
		}
		if !CanTransition(booking.Status, status) {
			return fmt.Errorf("%s -> %s: %w", booking.Status, status, ErrInvalidTransition)
		}
		if err := tx.UpdateBookingStatus(ctx, bookingID, status); err != nil {
			return fmt.Errorf("set booking %d status: %w", bookingID, err)
		}
		return nil
	})
}

func (s *LifecycleService) MarkCheckedIn(ctx context.Context, bookingID uint, actor Actor) error {
	return s.SetStatus(ctx, bookingID, models.BookingCheckedIn, actor)
}

func (s *LifecycleService) MarkCheckedOut(ctx context.Context, bookingID uint, actor Actor) error {
	return s.SetStatus(ctx, bookingID, models.BookingCheckedOut, actor)
}

// RecordPayment stores a completed payment and, if the booking is still
// pending, confirms it — one transactional unit, so a failed status
// write never leaves an orphaned payment. A second payment on an
// already-confirmed booking records the money and changes nothing else.
// Policy is deliberately lenient: the amount is not checked against the
// booking total.
func (s *LifecycleService) RecordPayment(ctx context.Context, bookingID uint, amount float64, method string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !models.ValidPaymentMethod(method) {
		return nil, &ValidationError{Field: "method", Reason: "unknown payment method"}
	}

	var payment *models.Payment
	err := s.store.WithTx(ctx, func(tx Store) error {
		booking, err := tx.BookingByID(ctx, bookingID)
		if err != nil {
			return err
		}

		now := s.Now().UTC()
		p := &models.Payment{
			BookingID: bookingID,
			Amount:    amount,
			Method:    method,
			Status:    models.PaymentCompleted,
			PaidAt:    &now,
		}
		if err := tx.CreatePayment(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		if booking.Status == models.BookingPending {
			if err := tx.UpdateBookingStatus(ctx, bookingID, models.BookingConfirmed); err != nil {
				return fmt.Errorf("confirm booking %d: %w", bookingID, err)
			}
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// RefundPayment marks a completed payment refunded. The payment keeps
// its booking linkage; booking status is not touched.
func (s *LifecycleService) RefundPayment(ctx context.Context, paymentID uint, actor Actor) error {
	if !actor.Staff {
		return ErrForbidden
	}
	return s.store.WithTx(ctx, func(tx Store) error {
		payment, err := tx.PaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != models.PaymentCompleted {
			return fmt.Errorf("payment %d is %s: %w", paymentID, payment.Status, ErrInvalidTransition)
		}
		return tx.UpdatePaymentStatus(ctx, paymentID, models.PaymentRefunded)
	})
}

// Payments returns the settlement history for a booking.
func (s *LifecycleService) Payments(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	if _, err := s.store.BookingByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.store.PaymentsForBooking(ctx, bookingID)
}

// Booking is a read-through for the presentation layer.
func (s *LifecycleService) Booking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return s.store.BookingByID(ctx, bookingID)
}
