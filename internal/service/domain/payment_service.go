package domain

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
)

// PaymentService applies payment-side results to the booking ledger.
// Every write is a conditional status transition, so a late settlement
// can never resurrect a booking that was cancelled in the meantime.
type PaymentService interface {
	SettleBooking(bookingID uint, succeeded bool) error
	MarkTimeout(bookingID uint) error
	MarkRefunded(bookingID uint) error
}

type paymentService struct {
	db       *gorm.DB
	logger   *zap.Logger
	bookings repository.BookingRepo

	runTx func(fn func(tx *gorm.DB) error) error
}

var _ PaymentService = (*paymentService)(nil)

func NewPaymentService(db *gorm.DB, logger *zap.Logger, bookingRepo repository.BookingRepo) *paymentService {
	s := &paymentService{
		db:       db,
		logger:   logger,
		bookings: bookingRepo,
	}
	s.runTx = func(fn func(tx *gorm.DB) error) error {
		return db.Transaction(fn)
	}
	return s
}

func (s *paymentService) SettleBooking(bookingID uint, succeeded bool) error {
	if !succeeded {
		_, err := s.bookings.UpdatePaymentStatusIf(bookingID, model.PaymentPending, model.PaymentFailed)
		return err
	}
	return s.runTx(func(tx *gorm.DB) error {
		paid, err := s.bookings.WithTx(tx).UpdatePaymentStatusIf(bookingID, model.PaymentPending, model.PaymentCompleted)
		if err != nil {
			return err
		}
		if paid == 0 {
			// duplicate or late settlement; nothing to do
			return nil
		}
		// a cancelled booking stays cancelled; the refund consumer
		// picks the completed payment up
		if _, err := s.bookings.WithTx(tx).UpdateBookingStatusIf(bookingID, model.BookingPending, model.BookingConfirmed); err != nil {
			return err
		}
		return nil
	})
}

// MarkTimeout fails a payment still pending after the settlement
// window. Seats stay held; only an explicit cancellation releases them.
func (s *paymentService) MarkTimeout(bookingID uint) error {
	timedOut, err := s.bookings.UpdatePaymentStatusIf(bookingID, model.PaymentPending, model.PaymentFailed)
	if err != nil {
		return err
	}
	if timedOut > 0 {
		s.logger.Info("payment timed out", zap.Uint("booking_id", bookingID))
	}
	return nil
}

// MarkRefunded records the refund of a settled payment after the
// booking was cancelled. Unsettled payments have nothing to refund.
func (s *paymentService) MarkRefunded(bookingID uint) error {
	_, err := s.bookings.UpdatePaymentStatusIf(bookingID, model.PaymentCompleted, model.PaymentRefunded)
	return err
}
