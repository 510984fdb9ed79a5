package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	// BookingPending is the initial state after creation.
	BookingPending BookingStatus = "pending"
	// BookingConfirmed is set once a payment is recorded.
	BookingConfirmed BookingStatus = "confirmed"
	// BookingCancelled marks a cancelled booking; its dates no longer block the space.
	BookingCancelled BookingStatus = "cancelled"
	// BookingCompleted marks a finished rental.
	BookingCompleted BookingStatus = "completed"
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking is a rental of a storage space for a date range.
type Booking struct {
	ID          int64
	SeekerID    int64
	SpaceID     int64
	StartDate   time.Time
	EndDate     time.Time
	Status      BookingStatus
	TotalAmount float64
	CreatedAt   int64 // unix millis
}

// Payment records money received against a booking.
type Payment struct {
	ID        int64
	BookingID int64
	Amount    float64
	Method    string
	Status    string
	CreatedAt int64 // unix millis
}

// Review is a seeker's rating of a completed booking.
type Review struct {
	ID        int64
	BookingID int64
	Rating    int // 1..5
	Comment   string
	CreatedAt int64 // unix millis
}
