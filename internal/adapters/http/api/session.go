package api

import (
	"fmt"
	"net/http"

	"github.com/okian/valuescore/internal/app"
	"github.com/okian/valuescore/internal/domain/dedupe"
	"github.com/okian/valuescore/internal/domain/model"
)

// IdempotencyKeyHeader lets clients retry POST /api/submit without
// appending a second entry.
const IdempotencyKeyHeader = "Idempotency-Key"

// SessionHandler handles the rating and submit endpoints.
type SessionHandler struct {
	session   Session
	unitLabel string
	submits   *dedupe.Deduper[app.Receipt]
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(session Session, unitLabel string, submits *dedupe.Deduper[app.Receipt]) *SessionHandler {
	if submits == nil {
		submits = dedupe.New[app.Receipt]()
	}
	return &SessionHandler{session: session, unitLabel: unitLabel, submits: submits}
}

// HandleGetSession handles GET /api/session.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

// HandlePutRating handles PUT /api/ratings and returns the updated session.
func (h *SessionHandler) HandlePutRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("decode rating", ErrBadRequest, err))
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("rating", ErrBadRequest, fmt.Errorf("value is required")))
		return
	}
	field, err := model.ParseField(req.Field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_rating", err)
		return
	}
	if err := h.session.SetRating(r.Context(), model.Category(req.Category), field, *req.Value); err != nil {
		if isValidation(err) {
			writeError(w, http.StatusBadRequest, "invalid_rating", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshot())
}

// HandleSubmit handles POST /api/submit. A repeated Idempotency-Key
// replays the first receipt without appending another entry.
func (h *SessionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	receipt, replayed := h.submits.Do(ctx, r.Header.Get(IdempotencyKeyHeader), func() app.Receipt {
		return h.session.Submit(ctx)
	})
	writeJSON(w, http.StatusOK, submitResponse{
		TotalScore: receipt.TotalScore,
		Date:       receipt.Entry.Date,
		Persisted:  receipt.Persisted,
		Message:    receipt.Message,
		Replayed:   replayed,
	})
}

func (h *SessionHandler) snapshot() sessionResponse {
	categories := h.session.Categories()
	return sessionResponse{
		ID:             h.session.ID(),
		Date:           h.session.Date(),
		Categories:     labels(categories),
		Ratings:        orderedRatings(categories, h.session.Ratings()),
		HistoryVisible: h.session.HistoryVisible(),
		UnitLabel:      h.unitLabel,
	}
}
