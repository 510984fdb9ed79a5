package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/siaa-cloud/siaa/internal/domain"
	accountuc "github.com/siaa-cloud/siaa/internal/usecase/account"
	bookinguc "github.com/siaa-cloud/siaa/internal/usecase/booking"
	healthuc "github.com/siaa-cloud/siaa/internal/usecase/health"
	listinguc "github.com/siaa-cloud/siaa/internal/usecase/listing"
	searchuc "github.com/siaa-cloud/siaa/internal/usecase/search"
)

// fakeListingRepo is an in-memory listing store shared by the listing,
// search, booking and health services in tests.
type fakeListingRepo struct {
	items  map[int64]domain.Listing
	nextID int64
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{items: map[int64]domain.Listing{}, nextID: 1}
}

func (f *fakeListingRepo) Insert(_ context.Context, l *domain.Listing) error {
	l.ID = f.nextID
	f.nextID++
	f.items[l.ID] = *l
	return nil
}

func (f *fakeListingRepo) Update(_ context.Context, l *domain.Listing) error {
	if _, ok := f.items[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	f.items[l.ID] = *l
	return nil
}

func (f *fakeListingRepo) GetAll(_ context.Context) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0, len(f.items))
	for _, l := range f.items {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id int64) (domain.Listing, error) {
	l, ok := f.items[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

func (f *fakeListingRepo) Count(_ context.Context) (int, error) {
	return len(f.items), nil
}

// fakeEmbedder returns per-text vectors with a shared fallback.
type fakeEmbedder struct {
	vectors map[string][]float32
	def     []float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	src, ok := f.vectors[text]
	if !ok {
		src = f.def
	}
	vec := make([]float32, len(src))
	copy(vec, src)
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 5}, nil
}

// fakeAccountRepo is an in-memory account store.
type fakeAccountRepo struct {
	byEmail map[string]domain.Account
	nextID  int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: map[string]domain.Account{}, nextID: 1}
}

func (f *fakeAccountRepo) Create(_ context.Context, a *domain.Account) error {
	if _, ok := f.byEmail[a.Email]; ok {
		return domain.ErrEmailExists
	}
	a.ID = f.nextID
	f.nextID++
	f.byEmail[a.Email] = *a
	return nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id int64) (domain.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

// fakeBookingRepo is an in-memory booking store.
type fakeBookingRepo struct {
	bookings map[int64]domain.Booking
	payments []domain.Payment
	reviews  map[int64]domain.Review
	nextID   int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[int64]domain.Booking{},
		reviews:  map[int64]domain.Review{},
		nextID:   1,
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	b.ID = f.nextID
	f.nextID++
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) ListBySeeker(_ context.Context, seekerID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.SeekerID == seekerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Status = status
	f.bookings[id] = b
	return nil
}

func (f *fakeBookingRepo) HasConflict(_ context.Context, spaceID int64, start, end time.Time) (bool, error) {
	for _, b := range f.bookings {
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

func (f *fakeBookingRepo) CreatePayment(_ context.Context, p *domain.Payment) error {
	p.ID = int64(len(f.payments) + 1)
	if p.Status == "" {
		p.Status = "recorded"
	}
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeBookingRepo) ListPayments(_ context.Context, bookingID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CreateReview(_ context.Context, rv *domain.Review) error {
	if _, ok := f.reviews[rv.BookingID]; ok {
		return domain.ErrReviewExists
	}
	rv.ID = int64(len(f.reviews) + 1)
	f.reviews[rv.BookingID] = *rv
	return nil
}

func (f *fakeBookingRepo) ListReviewsBySpace(_ context.Context, spaceID int64) ([]domain.Review, error) {
	var out []domain.Review
	for bookingID, rv := range f.reviews {
		if b, ok := f.bookings[bookingID]; ok && b.SpaceID == spaceID {
			out = append(out, rv)
		}
	}
	return out, nil
}

type fakeDBPinger struct {
	err error
}

func (f *fakeDBPinger) PingContext(_ context.Context) error { return f.err }

// testEnv bundles the server with its backing fakes.
type testEnv struct {
	handler  http.Handler
	listings *fakeListingRepo
	accounts *fakeAccountRepo
	bookings *fakeBookingRepo
	embedder *fakeEmbedder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	listings := newFakeListingRepo()
	accounts := newFakeAccountRepo()
	bookings := newFakeBookingRepo()
	embedder := &fakeEmbedder{
		vectors: map[string][]float32{},
		def:     []float32{1, 0},
	}

	spaceSvc := listinguc.New(listings, embedder, 2)
	searchSvc := searchuc.New(listings, embedder, 0)
	accountSvc := accountuc.New(accounts)
	bookingSvc := bookinguc.New(bookings, listings, accounts)
	healthSvc := healthuc.New(&fakeDBPinger{}, nil, nil, listings)

	srv := NewServer(spaceSvc, searchSvc, accountSvc, bookingSvc, healthSvc, "test-model", zap.NewNop())
	return &testEnv{
		handler:  srv.Routes(),
		listings: listings,
		accounts: accounts,
		bookings: bookings,
		embedder: embedder,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
