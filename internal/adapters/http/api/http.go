// Package api exposes the rating session over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/valuescore/internal/adapters/http/site"
	"github.com/okian/valuescore/internal/adapters/http/swagger"
	"github.com/okian/valuescore/internal/app"
	"github.com/okian/valuescore/internal/domain/dedupe"
	"github.com/okian/valuescore/internal/domain/model"
	"github.com/okian/valuescore/pkg/logger"
)

const requestTimeout = 10 * time.Second

// Session is the rating session the handlers drive. *app.Session satisfies it.
type Session interface {
	ID() string
	Date() string
	Categories() []model.Category
	Ratings() model.RatingSet
	History() []model.HistoryEntry
	HistoryVisible() bool

	SetRating(ctx context.Context, c model.Category, f model.Field, value int) error
	Submit(ctx context.Context) app.Receipt
	ToggleHistoryView(ctx context.Context) bool
	DeleteEntry(ctx context.Context, index int) bool
}

// Server wires HTTP routes for the questionnaire.
type Server struct {
	session        Session
	unitLabel      string
	allowedOrigins []string
	logger         logger.Logger
	submits        *dedupe.Deduper[app.Receipt]

	healthHandler  *HealthHandler
	sessionHandler *SessionHandler
	historyHandler *HistoryHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithUnitLabel sets the suffix shown after per-category deltas.
func WithUnitLabel(unit string) Option {
	return func(s *Server) {
		s.unitLabel = unit
	}
}

// WithAllowedOrigins sets the CORS origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSubmitDeduper sets the idempotency-key cache for submissions.
func WithSubmitDeduper(d *dedupe.Deduper[app.Receipt]) Option {
	return func(s *Server) {
		if d != nil {
			s.submits = d
		}
	}
}

// NewServer creates an API server around session.
func NewServer(session Session, opts ...Option) *Server {
	s := &Server{
		session:   session,
		unitLabel: "分",
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.sessionHandler = NewSessionHandler(session, s.unitLabel, s.submits)
	s.historyHandler = NewHistoryHandler(session, s.unitLabel)
	return s
}

// Routes builds the router with every endpoint attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Timeout(requestTimeout))
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", IdempotencyKeyHeader},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	ctx := context.Background()
	site.Register(ctx, r)
	swagger.Register(ctx, r)
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleHealth)

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/session", MetricsMiddleware(s.sessionHandler.HandleGetSession, "session"))
		ar.Put("/ratings", MetricsMiddleware(s.sessionHandler.HandlePutRating, "ratings"))
		ar.Post("/submit", MetricsMiddleware(s.sessionHandler.HandleSubmit, "submit"))
		ar.Get("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
		ar.Post("/history/toggle", MetricsMiddleware(s.historyHandler.HandleToggle, "history_toggle"))
		ar.Delete("/history/{index}", MetricsMiddleware(s.historyHandler.HandleDelete, "history_delete"))
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isValidation reports whether err is a rating validation failure.
func isValidation(err error) bool {
	return errors.Is(err, model.ErrUnknownCategory) ||
		errors.Is(err, model.ErrUnknownField) ||
		errors.Is(err, model.ErrRatingOutOfRange) ||
		errors.Is(err, ErrBadRequest)
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return errors.New("content type must be application/json")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
