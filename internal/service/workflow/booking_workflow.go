package workflow

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/mq"
	"github.com/klixid/movie-booking/internal/service/domain"
)

// BookingFlow is the booking-side entry point handlers talk to.
type BookingFlow interface {
	CreateBooking(in domain.CreateBookingInput) (*model.Booking, error)
	CancelBooking(bookingID uint) (*model.Booking, error)
	Start(mqConn *amqp.Connection) error
}

// BookingWorkflow fronts the booking service and drives the payment
// conversation over the broker: every new booking gets a charge request
// and a delayed expiry message, every cancellation a refund request, and
// settlement results flow back in through Start.
type BookingWorkflow struct {
	bookingService domain.BookingService
	paymentService domain.PaymentService
	mqConn         *amqp.Connection
	logger         *zap.Logger
}

var _ BookingFlow = (*BookingWorkflow)(nil)

func NewBookingWorkflow(bookingService domain.BookingService, paymentService domain.PaymentService,
	mqConn *amqp.Connection, logger *zap.Logger) *BookingWorkflow {
	return &BookingWorkflow{
		bookingService: bookingService,
		paymentService: paymentService,
		mqConn:         mqConn,
		logger:         logger,
	}
}

func (w *BookingWorkflow) CreateBooking(in domain.CreateBookingInput) (*model.Booking, error) {
	booking, err := w.bookingService.CreateBooking(in)
	if err != nil {
		return nil, err
	}

	ch, err := mq.NewChannel(w.mqConn)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	if err := mq.SendImmediateMessage(ch, mq.BookingToPaymentImmediateQueue,
		mq.BookingToPaymentImmediateMessage{
			BookingID: booking.ID,
			Amount:    booking.TotalAmount,
			Method:    string(booking.PaymentMethod),
		}); err != nil {
		return nil, err
	}

	if err := mq.SendTimeoutMessage(ch, mq.BookingToPaymentDelayQueue,
		mq.BookingToPaymentDelayMessage{
			BookingID: booking.ID,
		}); err != nil {
		return nil, err
	}

	return booking, nil
}

// CancelBooking releases the seats and, when the payment had already
// completed, asks the payment side for a refund.
func (w *BookingWorkflow) CancelBooking(bookingID uint) (*model.Booking, error) {
	booking, err := w.bookingService.CancelBooking(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == model.PaymentCompleted {
		ch, err := mq.NewChannel(w.mqConn)
		if err != nil {
			return nil, err
		}
		defer ch.Close()
		if err := mq.SendImmediateMessage(ch, mq.BookingRefundImmediateQueue,
			mq.BookingRefundImmediateMessage{BookingID: booking.ID}); err != nil {
			w.logger.Error("failed to request refund", zap.Uint("booking_id", booking.ID), zap.Error(err))
		}
	}

	return booking, nil
}

// Start consumes settlement results from the payment side.
func (w *BookingWorkflow) Start(mqConn *amqp.Connection) error {
	ch, err := mq.NewChannel(mqConn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.PaymentToBookingImmediateQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handleSettlement(msg); err != nil {
				w.logger.Error("failed to handle settlement", zap.Error(err))
			}
		}
	}()

	return nil
}

func (w *BookingWorkflow) handleSettlement(msg amqp.Delivery) error {
	var message mq.PaymentToBookingImmediateMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return err
	}

	if err := w.paymentService.SettleBooking(message.BookingID, message.Succeeded); err != nil {
		msg.Nack(false, true)
		return err
	}

	msg.Ack(false)
	return nil
}
