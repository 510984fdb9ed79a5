package booking

import (
	"context"
	"time"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Repository defines the storage contract for bookings, payments and reviews.
type Repository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (domain.Booking, error)
	ListBySeeker(ctx context.Context, seekerID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	HasConflict(ctx context.Context, spaceID int64, start, end time.Time) (bool, error)
	CreatePayment(ctx context.Context, p *domain.Payment) error
	ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	CreateReview(ctx context.Context, rv *domain.Review) error
	ListReviewsBySpace(ctx context.Context, spaceID int64) ([]domain.Review, error)
}

// ListingReader reads listings for existence and price lookups.
type ListingReader interface {
	GetByID(ctx context.Context, id int64) (domain.Listing, error)
}

// AccountReader reads accounts for seeker existence checks.
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (domain.Account, error)
}
