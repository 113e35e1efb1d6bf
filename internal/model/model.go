package model

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	Email          string   `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword string   `gorm:"not null" json:"-"`
	Image          string   `gorm:"size:255" json:"image"`
	Role           UserRole `gorm:"type:varchar(16);not null" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// SearchEntry is one item of a user's search history.
type SearchEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	TMDBID     int64     `gorm:"not null" json:"tmdb_id"`
	Title      string    `gorm:"size:255" json:"title"`
	Image      string    `gorm:"size:255" json:"image"`
	SearchType string    `gorm:"type:varchar(16);not null" json:"search_type"`
	CreatedAt  time.Time `json:"created_at"`
}

type ScreenType string

const (
	Screen2D   ScreenType = "2D"
	Screen3D   ScreenType = "3D"
	ScreenIMAX ScreenType = "IMAX"
	Screen4DX  ScreenType = "4DX"
)

// Showtime is a scheduled screening. MovieID references the external
// catalog, not a local table. TotalSeats/AvailableSeats are a display
// projection maintained alongside seat writes; the seats table is the
// source of truth for availability.
type Showtime struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	MovieID        string     `gorm:"size:32;not null;index" json:"movie_id"`
	StartTime      time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime        time.Time  `gorm:"not null" json:"end_time"`
	Theater        string     `gorm:"size:100;not null" json:"theater"`
	ScreenType     ScreenType `gorm:"type:varchar(8);not null;default:'2D'" json:"screen_type"`
	Language       string     `gorm:"size:32;not null" json:"language"`
	BasePrice      float64    `gorm:"not null" json:"base_price"`
	TotalSeats     int        `gorm:"not null;default:0" json:"total_seats"`
	AvailableSeats int        `gorm:"not null;default:0" json:"available_seats"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsFull reports whether every seat of the showtime is taken, per the
// cached counters.
func (s *Showtime) IsFull() bool {
	return s.AvailableSeats == 0
}

// Duration is derived on read so it can never go stale.
func (s *Showtime) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

type SeatType string

const (
	SeatRegular SeatType = "regular"
	SeatPremium SeatType = "premium"
	SeatVIP     SeatType = "vip"
)

// Seat is one bookable unit of inventory. IsBooked is true exactly when
// BookingID is set; both are flipped together by the same conditional
// update.
type Seat struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ShowtimeID uint      `gorm:"not null;index" json:"showtime_id"`
	Row        string    `gorm:"column:row_label;size:4;not null" json:"row"`
	SeatNumber string    `gorm:"size:8;not null" json:"seat_number"`
	Type       SeatType  `gorm:"type:varchar(16);not null;default:'regular'" json:"type"`
	Price      float64   `gorm:"not null" json:"price"`
	IsBooked   bool      `gorm:"not null;default:false" json:"is_booked"`
	BookingID  *uint     `gorm:"index" json:"booking_id"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Label is the human-facing seat name, row prefix plus number.
func (s *Seat) Label() string {
	return s.Row + s.SeatNumber
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PayCreditCard   PaymentMethod = "credit_card"
	PayDebitCard    PaymentMethod = "debit_card"
	PayEWallet      PaymentMethod = "e_wallet"
	PayBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCreditCard, PayDebitCard, PayEWallet, PayBankTransfer:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking ties a user, a showtime and a set of seats together. While a
// booking is not cancelled it exclusively owns its seats.
type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	BookingCode     string        `gorm:"size:16;not null;index" json:"booking_code"`
	UserID          uint          `gorm:"not null;index" json:"user_id"`
	MovieID         string        `gorm:"size:32;not null;index" json:"movie_id"`
	ShowtimeID      uint          `gorm:"not null;index" json:"showtime_id"`
	Seats           []Seat        `gorm:"foreignKey:BookingID" json:"seats"`
	TotalAmount     float64       `gorm:"not null" json:"total_amount"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"payment_status"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(16);not null" json:"payment_method"`
	BookingStatus   BookingStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"booking_status"`
	CustomerName    string        `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail   string        `gorm:"size:255;not null" json:"customer_email"`
	CustomerPhone   string        `gorm:"size:32;not null" json:"customer_phone"`
	SpecialRequests string        `gorm:"type:text" json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewBookingCode builds the human-facing code, an 8-digit date plus a
// 4-digit random suffix, e.g. "20260831-4821".
func NewBookingCode(at time.Time) string {
	return fmt.Sprintf("%s-%04d", at.Format("20060102"), 1000+rand.Intn(9000))
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&SearchEntry{},
		&Showtime{},
		&Seat{},
		&Booking{},
	)
}
