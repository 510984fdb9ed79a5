package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrListingNotFound signals a missing listing.
	ErrListingNotFound = errors.New("listing not found")
	// ErrBookingNotFound signals a missing booking.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNoSearchCriteria signals a search with neither query text nor filters.
	ErrNoSearchCriteria = errors.New("no search criteria provided")
	// ErrInvalidInput signals a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmailExists signals a duplicate registration email.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSpaceUnavailable signals a booking attempt on a non-bookable space.
	ErrSpaceUnavailable = errors.New("space is not available")
	// ErrBookingConflict signals overlapping booking dates for a space.
	ErrBookingConflict = errors.New("space is already booked for the selected dates")
	// ErrReviewExists signals a second review for the same booking.
	ErrReviewExists = errors.New("booking already reviewed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
