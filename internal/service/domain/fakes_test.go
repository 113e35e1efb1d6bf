package domain

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
)

// In-memory repositories for exercising the services without a
// database. WithTx returns the fake itself; tests stub runTx so the
// closure runs against a nil *gorm.DB.

type fakeShowtimeRepo struct {
	showtimes map[uint]*model.Showtime
	nextID    uint
}

func newFakeShowtimeRepo() *fakeShowtimeRepo {
	return &fakeShowtimeRepo{showtimes: make(map[uint]*model.Showtime), nextID: 1}
}

func (f *fakeShowtimeRepo) WithTx(tx *gorm.DB) repository.ShowtimeRepo { return f }

func (f *fakeShowtimeRepo) Create(showtime *model.Showtime) error {
	showtime.ID = f.nextID
	f.nextID++
	cp := *showtime
	f.showtimes[showtime.ID] = &cp
	return nil
}

func (f *fakeShowtimeRepo) GetByID(id uint) (*model.Showtime, error) {
	st, ok := f.showtimes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeShowtimeRepo) Update(showtime *model.Showtime) error {
	if _, ok := f.showtimes[showtime.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *showtime
	f.showtimes[showtime.ID] = &cp
	return nil
}

func (f *fakeShowtimeRepo) Delete(id uint) error {
	delete(f.showtimes, id)
	return nil
}

func (f *fakeShowtimeRepo) ListFutureByMovie(movieID string, after time.Time) ([]model.Showtime, error) {
	var out []model.Showtime
	for _, st := range f.showtimes {
		if st.MovieID == movieID && st.StartTime.After(after) && st.IsActive {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeShowtimeRepo) ListAll() ([]model.Showtime, error) {
	var out []model.Showtime
	for _, st := range f.showtimes {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeShowtimeRepo) ListUnfinished(after time.Time) ([]model.Showtime, error) {
	var out []model.Showtime
	for _, st := range f.showtimes {
		if st.EndTime.After(after) {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (f *fakeShowtimeRepo) CountAll() (int64, error) {
	return int64(len(f.showtimes)), nil
}

func (f *fakeShowtimeRepo) CountStartingAfter(t time.Time) (int64, error) {
	var n int64
	for _, st := range f.showtimes {
		if st.StartTime.After(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeShowtimeRepo) AddSeats(id uint, count int) (int64, error) {
	st, ok := f.showtimes[id]
	if !ok {
		return 0, nil
	}
	st.TotalSeats += count
	st.AvailableSeats += count
	return 1, nil
}

func (f *fakeShowtimeRepo) AdjustAvailableSeats(id uint, delta int) (int64, error) {
	st, ok := f.showtimes[id]
	if !ok {
		return 0, nil
	}
	next := st.AvailableSeats + delta
	if next < 0 || next > st.TotalSeats {
		return 0, nil
	}
	st.AvailableSeats = next
	return 1, nil
}

func (f *fakeShowtimeRepo) RecountSeats(id uint) error {
	return nil
}

type fakeSeatRepo struct {
	seats  map[uint]*model.Seat
	nextID uint
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[uint]*model.Seat), nextID: 1}
}

func (f *fakeSeatRepo) WithTx(tx *gorm.DB) repository.SeatRepo { return f }

func (f *fakeSeatRepo) add(seat model.Seat) uint {
	seat.ID = f.nextID
	f.nextID++
	f.seats[seat.ID] = &seat
	return seat.ID
}

func (f *fakeSeatRepo) CreateBatch(seats []model.Seat) error {
	for i := range seats {
		seats[i].ID = f.add(seats[i])
	}
	return nil
}

func (f *fakeSeatRepo) GetByID(id uint) (*model.Seat, error) {
	seat, ok := f.seats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *seat
	return &cp, nil
}

func (f *fakeSeatRepo) Update(seat *model.Seat) error {
	cp := *seat
	f.seats[seat.ID] = &cp
	return nil
}

func (f *fakeSeatRepo) ListByShowtime(showtimeID uint) ([]model.Seat, error) {
	var out []model.Seat
	for _, seat := range f.seats {
		if seat.ShowtimeID == showtimeID && seat.IsActive {
			out = append(out, *seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeatRepo) ListByBooking(bookingID uint) ([]model.Seat, error) {
	var out []model.Seat
	for _, seat := range f.seats {
		if seat.BookingID != nil && *seat.BookingID == bookingID {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) FindAvailable(showtimeID uint, seatIDs []uint) ([]model.Seat, error) {
	var out []model.Seat
	for _, id := range seatIDs {
		seat, ok := f.seats[id]
		if ok && seat.ShowtimeID == showtimeID && !seat.IsBooked && seat.IsActive {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) MarkBooked(seatIDs []uint, bookingID uint) (int64, error) {
	var claimed int64
	for _, id := range seatIDs {
		seat, ok := f.seats[id]
		if ok && !seat.IsBooked && seat.IsActive {
			seat.IsBooked = true
			bid := bookingID
			seat.BookingID = &bid
			claimed++
		}
	}
	return claimed, nil
}

func (f *fakeSeatRepo) Release(bookingID uint) (int64, error) {
	var released int64
	for _, seat := range f.seats {
		if seat.BookingID != nil && *seat.BookingID == bookingID {
			seat.IsBooked = false
			seat.BookingID = nil
			released++
		}
	}
	return released, nil
}

func (f *fakeSeatRepo) ReleaseCancelled() (int64, error) {
	return 0, nil
}

func (f *fakeSeatRepo) CountBooked(showtimeID uint) (int64, error) {
	var n int64
	for _, seat := range f.seats {
		if seat.ShowtimeID == showtimeID && seat.IsBooked {
			n++
		}
	}
	return n, nil
}

func (f *fakeSeatRepo) DeleteByShowtime(showtimeID uint) error {
	for id, seat := range f.seats {
		if seat.ShowtimeID == showtimeID {
			delete(f.seats, id)
		}
	}
	return nil
}

type fakeBookingRepo struct {
	bookings map[uint]*model.Booking
	nextID   uint
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uint]*model.Booking), nextID: 1}
}

func (f *fakeBookingRepo) WithTx(tx *gorm.DB) repository.BookingRepo { return f }

func (f *fakeBookingRepo) Create(booking *model.Booking) error {
	booking.ID = f.nextID
	f.nextID++
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByID(id uint) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) ListByUser(userID uint) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBookingRepo) ExistsByShowtime(showtimeID uint) (bool, error) {
	for _, b := range f.bookings {
		if b.ShowtimeID == showtimeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) UpdateBookingStatusIf(id uint, from, to model.BookingStatus) (int64, error) {
	b, ok := f.bookings[id]
	if !ok || b.BookingStatus != from {
		return 0, nil
	}
	b.BookingStatus = to
	return 1, nil
}

func (f *fakeBookingRepo) UpdatePaymentStatusIf(id uint, from, to model.PaymentStatus) (int64, error) {
	b, ok := f.bookings[id]
	if !ok || b.PaymentStatus != from {
		return 0, nil
	}
	b.PaymentStatus = to
	return 1, nil
}

func (f *fakeBookingRepo) Count(since, until *time.Time) (int64, error) {
	return int64(len(f.bookings)), nil
}

func (f *fakeBookingRepo) CountByStatus(status model.BookingStatus, since, until *time.Time) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.BookingStatus == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) SumCompletedRevenue(since, until *time.Time) (float64, error) {
	var total float64
	for _, b := range f.bookings {
		if b.PaymentStatus == model.PaymentCompleted {
			total += b.TotalAmount
		}
	}
	return total, nil
}

func (f *fakeBookingRepo) PaymentMethodCounts(since, until *time.Time) ([]repository.PaymentMethodCount, error) {
	counts := make(map[model.PaymentMethod]int64)
	for _, b := range f.bookings {
		if b.PaymentStatus == model.PaymentCompleted {
			counts[b.PaymentMethod]++
		}
	}
	var out []repository.PaymentMethodCount
	for method, n := range counts {
		out = append(out, repository.PaymentMethodCount{PaymentMethod: method, Count: n})
	}
	return out, nil
}

func (f *fakeBookingRepo) DailyStats(since, until *time.Time) ([]repository.DailyBookingStat, error) {
	return nil, nil
}

func (f *fakeBookingRepo) PopularMovies(limit int) ([]repository.MovieBookingCount, error) {
	counts := make(map[string]int64)
	for _, b := range f.bookings {
		if b.BookingStatus == model.BookingCompleted {
			counts[b.MovieID]++
		}
	}
	var out []repository.MovieBookingCount
	for movieID, n := range counts {
		out = append(out, repository.MovieBookingCount{MovieID: movieID, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeUserRepo struct {
	users       map[uint]*model.User
	searches    map[uint]*model.SearchEntry
	nextUser    uint
	nextEntryID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       make(map[uint]*model.User),
		searches:    make(map[uint]*model.SearchEntry),
		nextUser:    1,
		nextEntryID: 1,
	}
}

func (f *fakeUserRepo) WithTx(tx *gorm.DB) repository.UserRepo { return f }

func (f *fakeUserRepo) Create(user *model.User) error {
	user.ID = f.nextUser
	f.nextUser++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) AppendSearch(entry *model.SearchEntry) error {
	entry.ID = f.nextEntryID
	f.nextEntryID++
	cp := *entry
	f.searches[entry.ID] = &cp
	return nil
}

func (f *fakeUserRepo) ListSearch(userID uint) ([]model.SearchEntry, error) {
	var out []model.SearchEntry
	for _, e := range f.searches {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) DeleteSearch(userID, entryID uint) (int64, error) {
	e, ok := f.searches[entryID]
	if !ok || e.UserID != userID {
		return 0, nil
	}
	delete(f.searches, entryID)
	return 1, nil
}

// noTx swaps the transactional runner for one that hands the closure a
// nil handle; the fakes ignore it.
func noTx(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
