package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// HistoryHandler handles the history view endpoints.
type HistoryHandler struct {
	session   Session
	unitLabel string
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(session Session, unitLabel string) *HistoryHandler {
	return &HistoryHandler{session: session, unitLabel: unitLabel}
}

// HandleGetHistory handles GET /api/history. It reports the current view
// without toggling it.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, historyResponse{
		Visible: h.session.HistoryVisible(),
		Entries: h.entries(),
	})
}

// HandleToggle handles POST /api/history/toggle.
func (h *HistoryHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	visible := h.session.ToggleHistoryView(r.Context())
	writeJSON(w, http.StatusOK, historyResponse{Visible: visible, Entries: h.entries()})
}

// HandleDelete handles DELETE /api/history/{index}. An index outside the
// log answers 200 with deleted=false.
func (h *HistoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("delete", ErrBadRequest, fmt.Errorf("index %q is not an integer", raw)))
		return
	}
	deleted := h.session.DeleteEntry(r.Context(), index)
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted, Entries: h.entries()})
}

func (h *HistoryHandler) entries() []entryView {
	return entryViews(h.session.Categories(), h.session.History(), h.unitLabel)
}
