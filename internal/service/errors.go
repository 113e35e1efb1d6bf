// Package service defines the sentinel errors shared by the domain
// services. Handlers translate them to HTTP status codes in one place.
package service

import "errors"

var (
	// ErrValidation covers missing or malformed input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when a showtime, seat, booking or user
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSeatUnavailable is returned when at least one requested seat
	// is already booked or does not belong to the showtime.
	ErrSeatUnavailable = errors.New("one or more selected seats are no longer available")

	// ErrCancellationWindow is returned when a cancellation arrives
	// less than two hours before the showtime starts.
	ErrCancellationWindow = errors.New("cannot cancel booking less than 2 hours before showtime")

	// ErrBookingCancelled is returned when an already cancelled booking
	// is cancelled again. Cancellation is terminal.
	ErrBookingCancelled = errors.New("booking is already cancelled")

	// ErrHasBookings guards showtime updates and deletes while any
	// booking references the showtime.
	ErrHasBookings = errors.New("showtime has existing bookings")

	// ErrEmailTaken is returned on signup with a registered email.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnavailable wraps backing-store and external-collaborator
	// failures surfaced at the request boundary.
	ErrUnavailable = errors.New("service temporarily unavailable")
)
