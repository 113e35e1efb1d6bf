package mq

// Queue names and message definitions

// immediate queue from booking to the payment collaborator
// deliver message to ask the payment side to settle a pending booking
const (
	BookingToPaymentImmediateQueue = "booking.payment.pay.immediate"
)

type BookingToPaymentImmediateMessage struct {
	BookingID uint    `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
}

// delay queue from booking to the payment collaborator
// deliver message to expire a payment still pending after the window
const (
	BookingToPaymentDelayQueue        = "booking.payment.timeout.delay"
	BookingToPaymentTimeoutQueue      = "booking.payment.timeout.immediate"
	BookingToPaymentTimeoutExchange   = "booking.timeout.exchange"
	BookingToPaymentTimeoutRoutingKey = "booking.timeout"
)

type BookingToPaymentDelayMessage struct {
	BookingID uint `json:"booking_id"`
}

// immediate queue from payment back to booking
// deliver the settlement result so the ledger can confirm or fail
const (
	PaymentToBookingImmediateQueue = "payment.booking.settled.immediate"
)

type PaymentToBookingImmediateMessage struct {
	BookingID  uint   `json:"booking_id"`
	Succeeded  bool   `json:"succeeded"`
	PaymentRef string `json:"payment_ref"`
}

// immediate queue from booking to the payment collaborator on
// cancellation; the refund itself is the payment side's job
const (
	BookingRefundImmediateQueue = "booking.cancelled.refund.immediate"
)

type BookingRefundImmediateMessage struct {
	BookingID uint `json:"booking_id"`
}
