package domain

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/service"
)

func newBookingFixture(t *testing.T) (*bookingService, *fakeShowtimeRepo, *fakeSeatRepo, *fakeBookingRepo) {
	t.Helper()
	showtimes := newFakeShowtimeRepo()
	seats := newFakeSeatRepo()
	bookings := newFakeBookingRepo()

	s := NewBookingService(nil, nil, zap.NewNop(), bookings, seats, showtimes)
	s.runTx = noTx
	return s, showtimes, seats, bookings
}

func seedShowtime(showtimes *fakeShowtimeRepo, seats *fakeSeatRepo, start time.Time, seatCount int) (*model.Showtime, []uint) {
	st := &model.Showtime{
		MovieID:    "603",
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
		Theater:    "Screen 1",
		ScreenType: model.Screen2D,
		Language:   "English",
		BasePrice:  12.50,
		IsActive:   true,
	}
	showtimes.Create(st)

	var ids []uint
	for i := 0; i < seatCount; i++ {
		id := seats.add(model.Seat{
			ShowtimeID: st.ID,
			Row:        "A",
			SeatNumber: string(rune('1' + i)),
			Type:       model.SeatRegular,
			Price:      12.50,
			IsActive:   true,
		})
		ids = append(ids, id)
	}
	st.TotalSeats = seatCount
	st.AvailableSeats = seatCount
	showtimes.Update(st)
	return st, ids
}

func validInput(showtimeID uint, seatIDs []uint) CreateBookingInput {
	return CreateBookingInput{
		UserID:        1,
		MovieID:       "603",
		ShowtimeID:    showtimeID,
		SeatIDs:       seatIDs,
		PaymentMethod: model.PayCreditCard,
		CustomerName:  "Trinity",
		CustomerEmail: "trinity@example.com",
		CustomerPhone: "+62123456789",
	}
}

func TestCreateBookingValidation(t *testing.T) {
	s, showtimes, seats, _ := newBookingFixture(t)
	st, ids := seedShowtime(showtimes, seats, time.Now().Add(24*time.Hour), 3)

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing user", func(in *CreateBookingInput) { in.UserID = 0 }},
		{"missing movie", func(in *CreateBookingInput) { in.MovieID = "" }},
		{"missing showtime", func(in *CreateBookingInput) { in.ShowtimeID = 0 }},
		{"empty seats", func(in *CreateBookingInput) { in.SeatIDs = nil }},
		{"bad payment method", func(in *CreateBookingInput) { in.PaymentMethod = "cash" }},
		{"missing contact", func(in *CreateBookingInput) { in.CustomerEmail = "" }},
		{"duplicate seats", func(in *CreateBookingInput) { in.SeatIDs = []uint{ids[0], ids[0]} }},
		{"negative amount", func(in *CreateBookingInput) { in.TotalAmount = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(st.ID, ids)
			tc.mutate(&in)
			if _, err := s.CreateBooking(in); !errors.Is(err, service.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	s, showtimes, seats, _ := newBookingFixture(t)
	st, ids := seedShowtime(showtimes, seats, time.Now().Add(24*time.Hour), 4)

	booking, err := s.CreateBooking(validInput(st.ID, ids[:2]))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if booking.BookingCode == "" {
		t.Error("booking code is empty")
	}
	if booking.TotalAmount != 25.0 {
		t.Errorf("total amount = %.2f, want 25.00", booking.TotalAmount)
	}
	if booking.BookingStatus != model.BookingPending || booking.PaymentStatus != model.PaymentPending {
		t.Errorf("new booking not pending: %s/%s", booking.BookingStatus, booking.PaymentStatus)
	}

	for _, id := range ids[:2] {
		seat, _ := seats.GetByID(id)
		if !seat.IsBooked || seat.BookingID == nil || *seat.BookingID != booking.ID {
			t.Errorf("seat %d not claimed by booking %d", id, booking.ID)
		}
	}

	updated, _ := showtimes.GetByID(st.ID)
	if updated.AvailableSeats != 2 {
		t.Errorf("available seats = %d, want 2", updated.AvailableSeats)
	}
}

func TestCreateBookingRejectsMismatchedAmount(t *testing.T) {
	s, showtimes, seats, _ := newBookingFixture(t)
	st, ids := seedShowtime(showtimes, seats, time.Now().Add(24*time.Hour), 2)

	in := validInput(st.ID, ids)
	in.TotalAmount = 3.00
	if _, err := s.CreateBooking(in); !errors.Is(err, service.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestCreateBookingPartialUnavailabilityLeavesNoTrace(t *testing.T) {
	s, showtimes, seats, bookings := newBookingFixture(t)
	st, ids := seedShowtime(showtimes, seats, time.Now().Add(24*time.Hour), 3)

	// one of the requested seats is already taken
	taken, _ := seats.GetByID(ids[1])
	taken.IsBooked = true
	seats.Update(taken)

	_, err := s.CreateBooking(validInput(st.ID, ids))
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Fatalf("got %v, want ErrSeatUnavailable", err)
	}

	if len(bookings.bookings) != 0 {
		t.Errorf("rejected booking left %d rows behind", len(bookings.bookings))
	}
	free, _ := seats.FindAvailable(st.ID, []uint{ids[0], ids[2]})
	if len(free) != 2 {
		t.Errorf("untaken seats were claimed by the failed attempt")
	}
	updated, _ := showtimes.GetByID(st.ID)
	if updated.AvailableSeats != 3 {
		t.Errorf("available seats = %d, want 3", updated.AvailableSeats)
	}
}

func TestCreateBookingUnknownShowtime(t *testing.T) {
	s, _, _, _ := newBookingFixture(t)
	if _, err := s.CreateBooking(validInput(99, []uint{1})); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCancelBookingReleasesSeats(t *testing.T) {
	s, showtimes, seats, _ := newBookingFixture(t)
	st, ids := seedShowtime(showtimes, seats, time.Now().Add(24*time.Hour), 3)

	booking, err := s.CreateBooking(validInput(st.ID, ids[:2]))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	cancelled, err := s.CancelBooking(booking.ID)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if cancelled.BookingStatus != model.BookingCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.BookingStatus)
	}

	for _, id := range ids[:2] {
		seat, _ := seats.GetByID(id)
		if seat.IsBooked || seat.BookingID != nil {
			t.Errorf("seat %d still held after cancellation", id)
		}
	}
	updated, _ := showtimes.GetByID(st.ID)
	if updated.AvailableSeats != 3 {
		t.Errorf("available seats = %d, want 3", updated.AvailableSeats)
	}
}

func TestCancelBookingIsTerminal(t *testing.T) {
	s, showtimes, seats, _ := newBookingFixture(t)
	st, ids := seedShowtime(showtimes, seats, time.Now().Add(24*time.Hour), 2)

	booking, err := s.CreateBooking(validInput(st.ID, ids))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := s.CancelBooking(booking.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := s.CancelBooking(booking.ID); !errors.Is(err, service.ErrBookingCancelled) {
		t.Errorf("second cancel: got %v, want ErrBookingCancelled", err)
	}
}

func TestCancelBookingWindowBoundary(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	start := base.Add(2 * time.Hour)

	cases := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"well before the window", base.Add(-time.Hour), false},
		{"exactly at the window", base, false},
		{"one minute inside", base.Add(time.Minute), true},
		{"after showtime started", start.Add(time.Minute), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, showtimes, seats, _ := newBookingFixture(t)
			st, ids := seedShowtime(showtimes, seats, start, 2)

			s.now = func() time.Time { return base.Add(-48 * time.Hour) }
			booking, err := s.CreateBooking(validInput(st.ID, ids))
			if err != nil {
				t.Fatalf("CreateBooking: %v", err)
			}

			s.now = func() time.Time { return tc.now }
			_, err = s.CancelBooking(booking.ID)
			if tc.wantErr && !errors.Is(err, service.ErrCancellationWindow) {
				t.Errorf("got %v, want ErrCancellationWindow", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCancelBookingUnknown(t *testing.T) {
	s, _, _, _ := newBookingFixture(t)
	if _, err := s.CancelBooking(42); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
