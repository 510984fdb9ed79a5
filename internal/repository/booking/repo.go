// Package booking persists bookings, payments and reviews in the
// relational store.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Dates are stored as ISO dates, which compare correctly as text.
const dateLayout = "2006-01-02"

// Repo stores bookings in SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a booking repository on top of an open database.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a new booking and assigns its ID.
func (r *Repo) Create(ctx context.Context, b *domain.Booking) error {
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().UnixMilli()
	}
	if b.Status == "" {
		b.Status = domain.BookingPending
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (
			seeker_id, space_id, start_date, end_date, status, total_amount, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.SeekerID, b.SpaceID,
		b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout),
		string(b.Status), b.TotalAmount, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("booking insert id: %w", err)
	}
	b.ID = id
	return nil
}

// GetByID looks a booking up by ID.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, seeker_id, space_id, start_date, end_date, status, total_amount, created_at
		FROM bookings WHERE id = ?`, id)

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("query booking: %w", err)
	}
	return b, nil
}

// ListBySeeker returns the seeker's bookings, newest first.
func (r *Repo) ListBySeeker(ctx context.Context, seekerID int64) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seeker_id, space_id, start_date, end_date, status, total_amount, created_at
		FROM bookings WHERE seeker_id = ? ORDER BY created_at DESC, id DESC`, seekerID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus sets a booking's status.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("booking rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// HasConflict reports whether the space already has an active booking
// overlapping [start, end]. Cancelled and completed bookings do not block.
func (r *Repo) HasConflict(ctx context.Context, spaceID int64, start, end time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE space_id = ?
		  AND status NOT IN ('cancelled', 'completed')
		  AND NOT (end_date < ? OR start_date > ?)`,
		spaceID, start.Format(dateLayout), end.Format(dateLayout),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query booking conflicts: %w", err)
	}
	return n > 0, nil
}

// CreatePayment records a payment and assigns its ID.
func (r *Repo) CreatePayment(ctx context.Context, p *domain.Payment) error {
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	if p.Status == "" {
		p.Status = "recorded"
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (booking_id, amount, method, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.BookingID, p.Amount, p.Method, p.Status, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("payment insert id: %w", err)
	}
	p.ID = id
	return nil
}

// ListPayments returns the payments for a booking, oldest first.
func (r *Repo) ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, booking_id, amount, method, status, created_at
		FROM payments WHERE booking_id = ? ORDER BY id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateReview records a review and assigns its ID.
// Returns domain.ErrReviewExists when the booking was already reviewed.
func (r *Repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	if rv.CreatedAt == 0 {
		rv.CreatedAt = time.Now().UnixMilli()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (booking_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?)`,
		rv.BookingID, rv.Rating, rv.Comment, rv.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrReviewExists
		}
		return fmt.Errorf("insert review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("review insert id: %w", err)
	}
	rv.ID = id
	return nil
}

// ListReviewsBySpace returns the reviews written for a space, newest first.
func (r *Repo) ListReviewsBySpace(ctx context.Context, spaceID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rv.id, rv.booking_id, rv.rating, rv.comment, rv.created_at
		FROM reviews rv
		JOIN bookings b ON b.id = rv.booking_id
		WHERE b.space_id = ?
		ORDER BY rv.created_at DESC, rv.id DESC`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (domain.Booking, error) {
	var (
		b          domain.Booking
		start, end string
		status     string
	)
	if err := row.Scan(&b.ID, &b.SeekerID, &b.SpaceID, &start, &end, &status, &b.TotalAmount, &b.CreatedAt); err != nil {
		return domain.Booking{}, err
	}

	var err error
	if b.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return domain.Booking{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	if b.EndDate, err = time.Parse(dateLayout, end); err != nil {
		return domain.Booking{}, fmt.Errorf("parse end date %q: %w", end, err)
	}
	b.Status = domain.BookingStatus(status)
	return b, nil
}
