package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/config"
	"github.com/klixid/movie-booking/internal/model"
)

// End-to-end race tests against a running server. They hammer the
// booking endpoint with overlapping seat selections and verify that no
// seat is ever sold twice. Run the server first, then:
//
//	go test ./test -run TestConcurrent -v

const baseURL = "http://127.0.0.1:4000"

var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10000,
		MaxIdleConnsPerHost: 10000,
		MaxConnsPerHost:     10000,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true,
	},
	Timeout: 10 * time.Second,
}

type bookingRequest struct {
	MovieID       string `json:"movieId"`
	ShowtimeID    uint   `json:"showtimeId"`
	SeatIDs       []uint `json:"seatIds"`
	PaymentMethod string `json:"paymentMethod"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

func setupTestDB(t *testing.T, seatCount int) (*gorm.DB, *model.Showtime, []uint) {
	t.Helper()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	db.Migrator().DropTable(&model.Seat{}, &model.Booking{}, &model.Showtime{}, &model.SearchEntry{}, &model.User{})
	if err := model.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	showtime := &model.Showtime{
		MovieID:    "603",
		StartTime:  time.Now().Add(24 * time.Hour),
		EndTime:    time.Now().Add(26 * time.Hour),
		Theater:    "Screen 1",
		ScreenType: model.Screen2D,
		Language:   "English",
		BasePrice:  12.50,
		IsActive:   true,
	}
	if err := db.Create(showtime).Error; err != nil {
		t.Fatalf("failed to create showtime: %v", err)
	}

	seatIDs := make([]uint, 0, seatCount)
	for i := 0; i < seatCount; i++ {
		seat := model.Seat{
			ShowtimeID: showtime.ID,
			Row:        string(rune('A' + i/10)),
			SeatNumber: fmt.Sprintf("%d", i%10+1),
			Type:       model.SeatRegular,
			Price:      12.50,
			IsActive:   true,
		}
		if err := db.Create(&seat).Error; err != nil {
			t.Fatalf("failed to create seat: %v", err)
		}
		seatIDs = append(seatIDs, seat.ID)
	}
	db.Model(showtime).Updates(map[string]any{
		"total_seats":     seatCount,
		"available_seats": seatCount,
	})

	t.Logf("seeded showtime %d with %d seats", showtime.ID, seatCount)
	return db, showtime, seatIDs
}

func signUp(t *testing.T, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
	})
	resp, err := httpClient.Post(baseURL+"/api/v1/auth/signup", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("signup request failed: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Token == "" {
		t.Fatalf("signup returned no token (status %d)", resp.StatusCode)
	}
	return payload.Token
}

func sendBookingRequest(token string, showtimeID uint, seatIDs []uint) (int, string, error) {
	reqBody := bookingRequest{
		MovieID:       "603",
		ShowtimeID:    showtimeID,
		SeatIDs:       seatIDs,
		PaymentMethod: "credit_card",
		CustomerName:  "Load Tester",
		CustomerEmail: "load@example.com",
		CustomerPhone: "+620000000000",
	}
	data, _ := json.Marshal(reqBody)

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/bookings", bytes.NewReader(data))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), nil
}

func verifySeatIntegrity(t *testing.T, db *gorm.DB, showtimeID uint) {
	t.Helper()

	// no seat may belong to more than one live booking
	var doubles int64
	db.Raw(`SELECT COUNT(*) FROM seats
		WHERE showtime_id = ? AND is_booked = true AND booking_id IS NULL`, showtimeID).Scan(&doubles)
	if doubles != 0 {
		t.Errorf("%d seats booked without a booking reference", doubles)
	}

	var booked int64
	db.Model(&model.Seat{}).
		Where("showtime_id = ? AND is_booked = ?", showtimeID, true).
		Count(&booked)

	var showtime model.Showtime
	db.First(&showtime, showtimeID)
	if int64(showtime.TotalSeats-showtime.AvailableSeats) != booked {
		t.Errorf("counter mismatch: %d booked seats, counters say %d",
			booked, showtime.TotalSeats-showtime.AvailableSeats)
	} else {
		t.Logf("counters consistent: %d seats booked", booked)
	}
}

// Every competitor requests the same single seat; exactly one may win.
func TestConcurrent_SingleSeatContention(t *testing.T) {
	const competitors = 200

	db, showtime, seatIDs := setupTestDB(t, 1)

	tokens := make([]string, competitors)
	for i := range tokens {
		tokens[i] = signUp(t, fmt.Sprintf("racer%d@example.com", i))
	}

	var success, rejected, other int64
	var wg sync.WaitGroup
	for i := 0; i < competitors; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			status, body, err := sendBookingRequest(tokens[idx], showtime.ID, seatIDs)
			switch {
			case err != nil:
				atomic.AddInt64(&other, 1)
				t.Logf("request error: %v", err)
			case status == http.StatusCreated:
				atomic.AddInt64(&success, 1)
			case status == http.StatusBadRequest:
				atomic.AddInt64(&rejected, 1)
			default:
				atomic.AddInt64(&other, 1)
				t.Logf("unexpected status %d: %s", status, body)
			}
		}(i)
	}
	wg.Wait()

	t.Logf("success=%d rejected=%d other=%d", success, rejected, other)
	if success != 1 {
		t.Errorf("seat sold %d times, want exactly 1", success)
	}

	time.Sleep(2 * time.Second)
	var claims int64
	db.Model(&model.Seat{}).Where("id = ? AND is_booked = ?", seatIDs[0], true).Count(&claims)
	if claims != 1 {
		t.Errorf("seat row claimed %d times", claims)
	}
	verifySeatIntegrity(t, db, showtime.ID)
}

// Competitors request overlapping pairs; a rejected attempt must not
// hold on to the seat it could have claimed.
func TestConcurrent_OverlappingSelections(t *testing.T) {
	const competitors = 100

	db, showtime, seatIDs := setupTestDB(t, 10)

	tokens := make([]string, competitors)
	for i := range tokens {
		tokens[i] = signUp(t, fmt.Sprintf("overlap%d@example.com", i))
	}

	var success int64
	var wg sync.WaitGroup
	for i := 0; i < competitors; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			// every request overlaps its neighbor by one seat
			pair := []uint{seatIDs[idx%9], seatIDs[idx%9+1]}
			status, _, err := sendBookingRequest(tokens[idx], showtime.ID, pair)
			if err == nil && status == http.StatusCreated {
				atomic.AddInt64(&success, 1)
			}
		}(i)
	}
	wg.Wait()

	t.Logf("%d of %d overlapping bookings succeeded", success, competitors)

	time.Sleep(2 * time.Second)

	// each booked seat must reference exactly one booking
	type claim struct {
		BookingID uint
		N         int64
	}
	var rows []claim
	db.Raw(`SELECT booking_id, COUNT(*) AS n FROM seats
		WHERE showtime_id = ? AND is_booked = true GROUP BY booking_id`, showtime.ID).Scan(&rows)
	for _, r := range rows {
		if r.N > 2 {
			t.Errorf("booking %d holds %d seats, requests were pairs", r.BookingID, r.N)
		}
	}
	verifySeatIntegrity(t, db, showtime.ID)
}

// A full showtime sells exactly TotalSeats seats no matter the load.
func TestConcurrent_SellOut(t *testing.T) {
	const (
		seatCount   = 50
		competitors = 500
	)

	db, showtime, seatIDs := setupTestDB(t, seatCount)

	tokens := make([]string, competitors)
	for i := range tokens {
		tokens[i] = signUp(t, fmt.Sprintf("sellout%d@example.com", i))
	}

	var success int64
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < competitors; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			seat := []uint{seatIDs[idx%seatCount]}
			status, _, err := sendBookingRequest(tokens[idx], showtime.ID, seat)
			if err == nil && status == http.StatusCreated {
				atomic.AddInt64(&success, 1)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	t.Logf("%d bookings in %v (%.1f req/s)", success, elapsed,
		float64(competitors)/elapsed.Seconds())
	if success != seatCount {
		t.Errorf("sold %d seats of %d available", success, seatCount)
	}

	time.Sleep(2 * time.Second)
	var bookings int64
	db.Model(&model.Booking{}).Where("showtime_id = ?", showtime.ID).Count(&bookings)
	if bookings != seatCount {
		t.Errorf("%d booking rows, want %d", bookings, seatCount)
	}
	verifySeatIntegrity(t, db, showtime.ID)
}
