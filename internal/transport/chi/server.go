// Package chi exposes the marketplace over HTTP with a JSON envelope.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/siaa-cloud/siaa/internal/domain"
	accountuc "github.com/siaa-cloud/siaa/internal/usecase/account"
	bookinguc "github.com/siaa-cloud/siaa/internal/usecase/booking"
	healthuc "github.com/siaa-cloud/siaa/internal/usecase/health"
	listinguc "github.com/siaa-cloud/siaa/internal/usecase/listing"
	searchuc "github.com/siaa-cloud/siaa/internal/usecase/search"
)

const dateLayout = "2006-01-02"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server hosts the HTTP API handlers.
type Server struct {
	spaces        *listinguc.Service
	search        *searchuc.Service
	accounts      *accountuc.Service
	bookings      *bookinguc.Service
	health        *healthuc.Service
	model         string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. model is reported by the health
// endpoint so clients can tell which embedding model ranked their results.
func NewServer(
	spaces *listinguc.Service,
	search *searchuc.Service,
	accounts *accountuc.Service,
	bookings *bookinguc.Service,
	health *healthuc.Service,
	model string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		spaces:   spaces,
		search:   search,
		accounts: accounts,
		bookings: bookings,
		health:   health,
		model:    model,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNoSearchCriteria, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest),
		sentinelHandler(domain.ErrSpaceUnavailable, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized),
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrBookingNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrEmailExists, http.StatusConflict),
		sentinelHandler(domain.ErrBookingConflict, http.StatusConflict),
		sentinelHandler(domain.ErrReviewExists, http.StatusConflict),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway),
	}
	return s
}

// Routes builds the route tree. Middlewares are attached by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/api/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/spaces", s.CreateSpace)
		r.Get("/spaces", s.ListSpaces)
		r.Get("/spaces/{id}", s.GetSpace)
		r.Put("/spaces/{id}", s.UpdateSpace)
		r.Get("/spaces/{id}/reviews", s.ListSpaceReviews)

		r.Post("/search", s.Search)

		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Post("/bookings", s.CreateBooking)
		r.Get("/seekers/{id}/bookings", s.ListSeekerBookings)
		r.Put("/bookings/{id}/status", s.UpdateBookingStatus)
		r.Delete("/bookings/{id}", s.CancelBooking)
		r.Post("/bookings/{id}/review", s.CreateReview)
		r.Get("/bookings/{id}/payments", s.ListBookingPayments)

		r.Post("/payments", s.CreatePayment)
	})

	return r
}

// --- Spaces ---

type spaceRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	Neighborhood   string   `json:"neighborhood"`
	Size           float64  `json:"size"`
	Price          float64  `json:"price"`
	Conditions     []string `json:"conditions"`
	ItemsType      string   `json:"items_type"`
	AccessType     string   `json:"access_type"`
	RentalDuration string   `json:"rental_duration"`
}

type spaceResponse struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	Neighborhood   string   `json:"neighborhood"`
	Size           float64  `json:"size"`
	Price          float64  `json:"price"`
	Conditions     []string `json:"conditions,omitempty"`
	ItemsType      string   `json:"items_type"`
	AccessType     string   `json:"access_type"`
	RentalDuration string   `json:"rental_duration"`
}

func (req *spaceRequest) toListing() domain.Listing {
	return domain.Listing{
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		Neighborhood:   req.Neighborhood,
		Size:           req.Size,
		Price:          req.Price,
		Conditions:     req.Conditions,
		ItemsType:      req.ItemsType,
		AccessType:     req.AccessType,
		RentalDuration: req.RentalDuration,
	}
}

func spaceToResponse(l *domain.Listing) spaceResponse {
	return spaceResponse{
		ID:             l.ID,
		Title:          l.Title,
		Description:    l.Description,
		Type:           l.Type,
		Neighborhood:   l.Neighborhood,
		Size:           l.Size,
		Price:          l.Price,
		Conditions:     l.Conditions,
		ItemsType:      l.ItemsType,
		AccessType:     l.AccessType,
		RentalDuration: l.RentalDuration,
	}
}

// CreateSpace handles POST /api/spaces.
func (s *Server) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req spaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l := req.toListing()

	ctx, usage := domain.NewContextWithUsage(r.Context())
	if err := s.spaces.Create(ctx, &l); err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"space_id": l.ID,
		"message":  "space listed successfully",
	})
}

// ListSpaces handles GET /api/spaces.
func (s *Server) ListSpaces(w http.ResponseWriter, r *http.Request) {
	items, err := s.spaces.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	spaces := make([]spaceResponse, len(items))
	for i := range items {
		spaces[i] = spaceToResponse(&items[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(spaces),
		"spaces":  spaces,
	})
}

// GetSpace handles GET /api/spaces/{id}.
func (s *Server) GetSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	l, err := s.spaces.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"space":   spaceToResponse(&l),
	})
}

// UpdateSpace handles PUT /api/spaces/{id}. The embedding is recomputed
// only when a textual field changed.
func (s *Server) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req spaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l := req.toListing()
	l.ID = id

	ctx, usage := domain.NewContextWithUsage(r.Context())
	if err := s.spaces.Update(ctx, &l); err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"space":   spaceToResponse(&l),
	})
}

// --- Search ---

type searchRequest struct {
	Query   string `json:"query"`
	TopK    int    `json:"top_k"`
	Filters struct {
		LocationNeighborhood string   `json:"location_neighborhood"`
		StorageSize          string   `json:"storage_size"`
		ItemsType            string   `json:"items_type"`
		RentalDuration       string   `json:"rental_duration"`
		PriceMax             *float64 `json:"price_max"`
		Environment          []string `json:"environment"`
	} `json:"filters"`
}

type searchResultItem struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Neighborhood string   `json:"neighborhood"`
	Type         string   `json:"type"`
	Size         float64  `json:"size"`
	Price        float64  `json:"price"`
	Description  string   `json:"description"`
	Conditions   []string `json:"conditions,omitempty"`
	AccessType   string   `json:"access_type"`
	MatchScore   float64  `json:"match_score"`
	Similarity   float64  `json:"similarity"`
}

// Search handles POST /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q := domain.SearchQuery{
		Query: req.Query,
		TopK:  req.TopK,
		Filters: domain.SearchFilters{
			Neighborhood:   req.Filters.LocationNeighborhood,
			Size:           req.Filters.StorageSize,
			ItemsType:      req.Filters.ItemsType,
			RentalDuration: req.Filters.RentalDuration,
			PriceMax:       req.Filters.PriceMax,
			Environment:    req.Filters.Environment,
		},
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.search.Search(ctx, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]searchResultItem, len(res.Items))
	for i, sc := range res.Items {
		results[i] = searchResultItem{
			ID:           sc.Listing.ID,
			Title:        sc.Listing.Title,
			Neighborhood: sc.Listing.Neighborhood,
			Type:         sc.Listing.Type,
			Size:         sc.Listing.Size,
			Price:        sc.Listing.Price,
			Description:  sc.Listing.Description,
			Conditions:   sc.Listing.Conditions,
			AccessType:   sc.Listing.AccessType,
			MatchScore:   sc.MatchScore,
			Similarity:   sc.Similarity,
		}
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"query":   res.ComposedQuery,
		"count":   len(results),
		"results": results,
	})
}

// --- Auth ---

type registerRequest struct {
	UserType     string `json:"user_type"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
}

type accountResponse struct {
	ID           int64  `json:"id"`
	UserType     string `json:"user_type"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

func accountToResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:           a.ID,
		UserType:     string(a.Type),
		Email:        a.Email,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Phone:        a.Phone,
		BusinessName: a.BusinessName,
	}
}

// Register handles POST /api/auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := s.accounts.Register(r.Context(), accountuc.RegisterInput{
		Type:         domain.AccountType(req.UserType),
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    accountToResponse(&a),
	})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    accountToResponse(&a),
	})
}

// --- Bookings ---

type bookingRequest struct {
	SeekerID    int64   `json:"seeker_id"`
	SpaceID     int64   `json:"space_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalAmount float64 `json:"total_amount"`
}

type bookingResponse struct {
	ID          int64   `json:"id"`
	SeekerID    int64   `json:"seeker_id"`
	SpaceID     int64   `json:"space_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

func bookingToResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		SeekerID:    b.SeekerID,
		SpaceID:     b.SpaceID,
		StartDate:   b.StartDate.Format(dateLayout),
		EndDate:     b.EndDate.Format(dateLayout),
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount,
	}
}

// CreateBooking handles POST /api/bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	b, err := s.bookings.Create(r.Context(), bookinguc.CreateInput{
		SeekerID:    req.SeekerID,
		SpaceID:     req.SpaceID,
		StartDate:   start,
		EndDate:     end,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"booking": bookingToResponse(&b),
	})
}

// ListSeekerBookings handles GET /api/seekers/{id}/bookings.
func (s *Server) ListSeekerBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	items, err := s.bookings.ListBySeeker(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	bookings := make([]bookingResponse, len(items))
	for i := range items {
		bookings[i] = bookingToResponse(&items[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(bookings),
		"bookings": bookings,
	})
}

// UpdateBookingStatus handles PUT /api/bookings/{id}/status.
func (s *Server) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.bookings.UpdateStatus(r.Context(), id, domain.BookingStatus(req.Status)); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"booking_id": id,
		"status":     req.Status,
	})
}

// CancelBooking handles DELETE /api/bookings/{id}.
func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.bookings.Cancel(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "booking cancelled",
	})
}

// --- Payments ---

// CreatePayment handles POST /api/payments. Recording a payment confirms
// the booking.
func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID int64   `json:"booking_id"`
		Amount    float64 `json:"amount"`
		Method    string  `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.bookings.RecordPayment(r.Context(), req.BookingID, req.Amount, req.Method)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"payment": paymentToResponse(&p),
	})
}

// ListBookingPayments handles GET /api/bookings/{id}/payments.
func (s *Server) ListBookingPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	items, err := s.bookings.ListPayments(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	payments := make([]map[string]any, len(items))
	for i := range items {
		payments[i] = paymentToResponse(&items[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(payments),
		"payments": payments,
	})
}

func paymentToResponse(p *domain.Payment) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"booking_id": p.BookingID,
		"amount":     p.Amount,
		"method":     p.Method,
		"status":     p.Status,
	}
}

// --- Reviews ---

// CreateReview handles POST /api/bookings/{id}/review.
func (s *Server) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rv, err := s.bookings.CreateReview(r.Context(), id, req.Rating, req.Comment)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"review": map[string]any{
			"id":         rv.ID,
			"booking_id": rv.BookingID,
			"rating":     rv.Rating,
			"comment":    rv.Comment,
		},
	})
}

// ListSpaceReviews handles GET /api/spaces/{id}/reviews.
func (s *Server) ListSpaceReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	items, err := s.bookings.ListReviewsBySpace(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	reviews := make([]map[string]any, len(items))
	for i, rv := range items {
		reviews[i] = map[string]any{
			"id":         rv.ID,
			"booking_id": rv.BookingID,
			"rating":     rv.Rating,
			"comment":    rv.Comment,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}

// --- Health ---

// HealthCheck handles GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":   string(report.Status),
		"model":    s.model,
		"listings": report.Listings,
		"checks":   report.Checks,
	})
}

// --- Helpers ---

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNoSearchCriteria,
		domain.ErrInvalidInput,
		domain.ErrSpaceUnavailable,
		domain.ErrInvalidCredentials,
		domain.ErrListingNotFound,
		domain.ErrBookingNotFound,
		domain.ErrNotFound,
		domain.ErrEmailExists,
		domain.ErrBookingConflict,
		domain.ErrReviewExists,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
