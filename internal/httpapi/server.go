package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"stockpulse/internal/store"
	"stockpulse/internal/view"
	"stockpulse/pkg/stockpulse"
)

// Archive is the read side of the stock list archive.
type Archive interface {
	ReadStocks(ctx context.Context, date string) ([]store.ArchivedStock, error)
	ListDates() ([]string, error)
}

// Server serves the mounted dashboard and stock table pages, and runs quote,
// search and auth requests against the backend on demand.
type Server struct {
	gw        view.Gateway
	dashboard *view.Dashboard
	stocks    *view.Stocks
	fallback  *view.Fallback
	auth      *view.Auth
	archive   Archive
	hub       *Hub
	log       *slog.Logger

	// Triggers an immediate dashboard refresh; nil when not mounted.
	refresh func()
}

// Option customises a Server.
type Option func(*Server)

// WithArchive enables the history endpoints.
func WithArchive(a Archive) Option {
	return func(s *Server) { s.archive = a }
}

// WithFallback sets the last-good quote cache used by the quote endpoint.
func WithFallback(f *view.Fallback) Option {
	return func(s *Server) { s.fallback = f }
}

// WithRefresh sets the function POST /api/dashboard/refresh calls.
func WithRefresh(fn func()) Option {
	return func(s *Server) { s.refresh = fn }
}

// NewServer creates the HTTP API server.
func NewServer(gw view.Gateway, dashboard *view.Dashboard, stocks *view.Stocks, hub *Hub, log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		gw:        gw,
		dashboard: dashboard,
		stocks:    stocks,
		auth:      view.NewAuth(gw, log),
		hub:       hub,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/dashboard/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/chart/{symbol}", s.handleChart)
	mux.HandleFunc("GET /api/stocks", s.handleStocks)
	mux.HandleFunc("GET /api/quote/{symbol}", s.handleQuote)
	mux.HandleFunc("GET /api/search/{symbol}", s.handleSearch)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("GET /api/dates", s.handleDates)
	mux.HandleFunc("GET /api/history/{date}", s.handleHistory)
	if s.hub != nil {
		mux.HandleFunc("GET /api/ws", s.hub.ServeWS)
	}
}

// Handler returns an http.Handler with request-id and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return requestIDMiddleware(s.log, corsMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an X-Request-ID (kept when the
// caller sent one) and logs it on completion.
func requestIDMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	st := s.dashboard.Snapshot()
	if q := r.URL.Query().Get("q"); q != "" {
		st.SearchTerm = q
	}
	writeJSON(w, DashboardResponse{State: st, Filtered: nonNil(st.FilteredRecords())})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresh == nil {
		writeError(w, http.StatusServiceUnavailable, "dashboard not mounted")
		return
	}
	s.refresh()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	u, err := s.gw.StockHistoryChart(r.Context(), symbol)
	if err != nil {
		s.log.Warn("chart fetch failed", "symbol", symbol, "error", err)
		writeError(w, statusFor(err), "chart unavailable")
		return
	}
	writeJSON(w, ChartResponse{Symbol: symbol, GraphURL: u})
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	st := s.stocks.Snapshot()
	if q := r.URL.Query().Get("q"); q != "" {
		st.SearchTerm = q
	}
	writeJSON(w, DashboardResponse{State: st, Filtered: nonNil(st.FilteredRecords())})
}

// handleQuote runs one quote page load for the request. The body is always
// the page state; the status tells success from failure.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := view.NewQuote(s.gw, s.fallback, s.log)
	q.Activate()
	defer q.Deactivate()
	q.Load(r.Context(), r.PathValue("symbol"))

	st := q.Snapshot()
	status := http.StatusOK
	switch {
	case st.Symbol == "":
		status = http.StatusBadRequest
	case st.Err != "" && st.Quote == nil:
		status = http.StatusNotFound
	}
	writeJSONStatus(w, status, st)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	p := view.NewSearch(s.gw, s.log)
	p.Activate()
	defer p.Deactivate()

	status := http.StatusOK
	if err := p.Lookup(r.Context(), r.PathValue("symbol")); err != nil {
		status = http.StatusBadRequest
	}
	st := p.Snapshot()
	if status == http.StatusOK && st.Result == nil {
		status = http.StatusNotFound
	}
	writeJSONStatus(w, status, st)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, s.auth.Login, http.StatusOK)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, s.auth.Register, http.StatusCreated)
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request, submit func(ctx context.Context, username, password string) (string, error), okStatus int) {
	var creds stockpulse.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	msg, err := submit(r.Context(), creds.Username, creds.Password)

	var (
		verr *view.ValidationError
		ferr *view.FormError
	)
	switch {
	case err == nil:
		writeJSONStatus(w, okStatus, AuthResponse{Message: msg})
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &ferr):
		writeJSONStatus(w, statusFor(ferr.Err), AuthResponse{Message: ferr.Message, UsernameTaken: ferr.UsernameTaken})
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, DatesResponse{Dates: []string{}})
		return
	}
	dates, err := s.archive.ListDates()
	if err != nil {
		s.log.Error("listing archive dates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list dates")
		return
	}
	writeJSON(w, DatesResponse{Dates: nonNil(dates)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}
	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	rows, err := s.archive.ReadStocks(r.Context(), date)
	if err != nil {
		s.log.Error("reading archive", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read archive")
		return
	}
	out := make([]ArchivedStockJSON, len(rows))
	for i, a := range rows {
		out[i] = ArchivedStockJSON{
			At:          a.At,
			Symbol:      a.Symbol,
			CompanyName: a.CompanyName,
			Price:       a.Price,
			Profit:      a.Profit,
			Loss:        a.Loss,
			Sentiment:   a.Sentiment,
			Trend:       a.Trend,
		}
	}
	writeJSON(w, HistoryResponse{Date: date, Stocks: out})
}

// statusFor passes a backend status through, or 502 when the backend never
// answered.
func statusFor(err error) int {
	var apiErr *stockpulse.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
