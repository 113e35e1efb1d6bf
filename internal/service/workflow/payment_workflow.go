package workflow

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/klixid/movie-booking/internal/mq"
	"github.com/klixid/movie-booking/internal/payment"
	"github.com/klixid/movie-booking/internal/service/domain"
)

// PaymentWorkflow is the payment collaborator. It charges new bookings
// through the gateway client, reports the result back to the booking
// side, expires payments that never completed, and processes refunds.
type PaymentWorkflow struct {
	paymentService domain.PaymentService
	gateway        *payment.MockClient
	logger         *zap.Logger
}

func NewPaymentWorkflow(paymentService domain.PaymentService, gateway *payment.MockClient, logger *zap.Logger) *PaymentWorkflow {
	return &PaymentWorkflow{
		paymentService: paymentService,
		gateway:        gateway,
		logger:         logger,
	}
}

func (w *PaymentWorkflow) Start(mqConn *amqp.Connection) error {
	if err := w.ConsumeCharge(mqConn); err != nil {
		return err
	}
	if err := w.ConsumeTimeout(mqConn); err != nil {
		return err
	}
	if err := w.ConsumeRefund(mqConn); err != nil {
		return err
	}
	return nil
}

func (w *PaymentWorkflow) ConsumeCharge(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.BookingToPaymentImmediateQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			go func(msg amqp.Delivery) {
				result, bookingID, err := w.handleCharge(msg)
				if err != nil {
					w.logger.Error("failed to handle charge message", zap.Error(err))
					return
				}
				if err := mq.SendImmediateMessage(ch, mq.PaymentToBookingImmediateQueue,
					mq.PaymentToBookingImmediateMessage{
						BookingID:  bookingID,
						Succeeded:  result.Succeeded,
						PaymentRef: result.Ref,
					}); err != nil {
					w.logger.Error("failed to publish settlement", zap.Uint("booking_id", bookingID), zap.Error(err))
				}
			}(msg)
		}
	}()

	return nil
}

func (w *PaymentWorkflow) handleCharge(msg amqp.Delivery) (*payment.Result, uint, error) {
	var message mq.BookingToPaymentImmediateMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return nil, 0, err
	}

	result, err := w.gateway.Charge(message.BookingID, message.Amount, message.Method)
	if err != nil {
		msg.Nack(false, true)
		return nil, 0, err
	}

	msg.Ack(false)
	return result, message.BookingID, nil
}

func (w *PaymentWorkflow) ConsumeTimeout(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.BookingToPaymentTimeoutQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			w.handleTimeout(msg)
		}
	}()

	return nil
}

func (w *PaymentWorkflow) handleTimeout(msg amqp.Delivery) {
	var message mq.BookingToPaymentDelayMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return
	}

	// MarkTimeout is a no-op for payments that already settled, so
	// every expiry message is safe to process.
	if err := w.paymentService.MarkTimeout(message.BookingID); err != nil {
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

func (w *PaymentWorkflow) ConsumeRefund(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.BookingRefundImmediateQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handleRefund(msg); err != nil {
				w.logger.Error("failed to handle refund", zap.Error(err))
			}
		}
	}()

	return nil
}

func (w *PaymentWorkflow) handleRefund(msg amqp.Delivery) error {
	var message mq.BookingRefundImmediateMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return err
	}

	if _, err := w.gateway.Refund(message.BookingID); err != nil {
		msg.Nack(false, true)
		return err
	}
	if err := w.paymentService.MarkRefunded(message.BookingID); err != nil {
		msg.Nack(false, true)
		return err
	}

	msg.Ack(false)
	return nil
}
