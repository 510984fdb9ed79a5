// Package booking handles the rental lifecycle: bookings, payments and
// reviews.
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// A billing month is 30 days; partial months are charged in full.
const daysPerMonth = 30

// Service handles the booking lifecycle.
type Service struct {
	repo     Repository
	listings ListingReader
	accounts AccountReader
}

// New creates a booking service.
func New(repo Repository, listings ListingReader, accounts AccountReader) *Service {
	return &Service{repo: repo, listings: listings, accounts: accounts}
}

// CreateInput carries the booking request fields.
type CreateInput struct {
	SeekerID    int64
	SpaceID     int64
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount float64 // 0 = derive from the listing price
}

// Create books a space for a date range. The space must exist, the seeker
// must be registered, and the dates must not overlap an active booking.
// When no amount is given it is derived from the listing price times the
// number of started months.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Booking, error) {
	if in.EndDate.Before(in.StartDate) {
		return domain.Booking{}, fmt.Errorf("end date before start date: %w", domain.ErrInvalidInput)
	}

	if _, err := s.accounts.GetByID(ctx, in.SeekerID); err != nil {
		return domain.Booking{}, fmt.Errorf("seeker %d: %w", in.SeekerID, domain.ErrInvalidInput)
	}

	space, err := s.listings.GetByID(ctx, in.SpaceID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return domain.Booking{}, domain.ErrSpaceUnavailable
		}
		return domain.Booking{}, fmt.Errorf("get space: %w", err)
	}

	conflict, err := s.repo.HasConflict(ctx, in.SpaceID, in.StartDate, in.EndDate)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("check conflicts: %w", err)
	}
	if conflict {
		return domain.Booking{}, domain.ErrBookingConflict
	}

	amount := in.TotalAmount
	if amount == 0 {
		amount = space.Price * float64(billedMonths(in.StartDate, in.EndDate))
	}

	b := domain.Booking{
		SeekerID:    in.SeekerID,
		SpaceID:     in.SpaceID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      domain.BookingPending,
		TotalAmount: amount,
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

// Get returns one booking by ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListBySeeker returns the seeker's bookings, newest first.
func (s *Service) ListBySeeker(ctx context.Context, seekerID int64) ([]domain.Booking, error) {
	out, err := s.repo.ListBySeeker(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// UpdateStatus moves a booking to a new lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if !domain.ValidBookingStatus(status) {
		return fmt.Errorf("unknown booking status %q: %w", status, domain.ErrInvalidInput)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

// Cancel cancels a booking, freeing its dates.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.UpdateStatus(ctx, id, domain.BookingCancelled)
}

// RecordPayment records a payment against a booking and confirms it.
// A zero amount charges the booking's total.
func (s *Service) RecordPayment(ctx context.Context, bookingID int64, amount float64, method string) (domain.Payment, error) {
	if amount < 0 {
		return domain.Payment{}, fmt.Errorf("amount must not be negative: %w", domain.ErrInvalidInput)
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("get booking: %w", err)
	}

	if amount == 0 {
		amount = b.TotalAmount
	}

	p := domain.Payment{
		BookingID: bookingID,
		Amount:    amount,
		Method:    method,
	}
	if err := s.repo.CreatePayment(ctx, &p); err != nil {
		return domain.Payment{}, fmt.Errorf("record payment: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, domain.BookingConfirmed); err != nil {
		return domain.Payment{}, fmt.Errorf("confirm booking: %w", err)
	}
	return p, nil
}

// ListPayments returns the payments recorded against a booking.
func (s *Service) ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	if _, err := s.repo.GetByID(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	out, err := s.repo.ListPayments(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

// CreateReview rates a booking. One review per booking; rating 1 to 5.
func (s *Service) CreateReview(ctx context.Context, bookingID int64, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrInvalidInput)
	}

	if _, err := s.repo.GetByID(ctx, bookingID); err != nil {
		return domain.Review{}, fmt.Errorf("get booking: %w", err)
	}

	rv := domain.Review{
		BookingID: bookingID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.repo.CreateReview(ctx, &rv); err != nil {
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	return rv, nil
}

// ListReviewsBySpace returns the reviews written for a space.
func (s *Service) ListReviewsBySpace(ctx context.Context, spaceID int64) ([]domain.Review, error) {
	out, err := s.repo.ListReviewsBySpace(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

// billedMonths charges every started 30-day month, minimum one.
func billedMonths(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24
	months := int(math.Ceil(days / daysPerMonth))
	if months < 1 {
		months = 1
	}
	return months
}
