package booking

import (
	"context"
	"time"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// mockRepo is an in-memory Repository fake.
type mockRepo struct {
	bookings map[int64]domain.Booking
	payments []domain.Payment
	reviews  map[int64]domain.Review // keyed by booking ID
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		bookings: map[int64]domain.Booking{},
		reviews:  map[int64]domain.Review{},
		nextID:   1,
	}
}

func (m *mockRepo) Create(_ context.Context, b *domain.Booking) error {
	b.ID = m.nextID
	m.nextID++
	m.bookings[b.ID] = *b
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (m *mockRepo) ListBySeeker(_ context.Context, seekerID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.SeekerID == seekerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Status = status
	m.bookings[id] = b
	return nil
}

func (m *mockRepo) HasConflict(_ context.Context, spaceID int64, start, end time.Time) (bool, error) {
	for _, b := range m.bookings {
		if b.SpaceID != spaceID {
			continue
		}
		if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
			continue
		}
		if !(b.EndDate.Before(start) || b.StartDate.After(end)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) CreatePayment(_ context.Context, p *domain.Payment) error {
	p.ID = int64(len(m.payments) + 1)
	m.payments = append(m.payments, *p)
	return nil
}

func (m *mockRepo) ListPayments(_ context.Context, bookingID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) CreateReview(_ context.Context, rv *domain.Review) error {
	if _, ok := m.reviews[rv.BookingID]; ok {
		return domain.ErrReviewExists
	}
	rv.ID = int64(len(m.reviews) + 1)
	m.reviews[rv.BookingID] = *rv
	return nil
}

func (m *mockRepo) ListReviewsBySpace(_ context.Context, spaceID int64) ([]domain.Review, error) {
	var out []domain.Review
	for bookingID, rv := range m.reviews {
		if b, ok := m.bookings[bookingID]; ok && b.SpaceID == spaceID {
			out = append(out, rv)
		}
	}
	return out, nil
}

// mockListings serves listings by ID.
type mockListings struct {
	items map[int64]domain.Listing
}

func (m *mockListings) GetByID(_ context.Context, id int64) (domain.Listing, error) {
	l, ok := m.items[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

// mockAccounts serves accounts by ID.
type mockAccounts struct {
	ids map[int64]bool
}

func (m *mockAccounts) GetByID(_ context.Context, id int64) (domain.Account, error) {
	if !m.ids[id] {
		return domain.Account{}, domain.ErrNotFound
	}
	return domain.Account{ID: id, Type: domain.AccountSeeker}, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	listings := &mockListings{items: map[int64]domain.Listing{
		1: {ID: 1, Title: "Indoor room", Price: 150},
	}}
	accounts := &mockAccounts{ids: map[int64]bool{10: true}}
	return New(repo, listings, accounts), repo
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}
