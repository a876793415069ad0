// Package site serves the embedded questionnaire page.
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ErrServe is returned when the embedded page cannot be read.
var ErrServe = errors.New("questionnaire page serve failed")

// Register attaches the questionnaire page to r at / and /index.html.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	h := NewRootHandler()
	r.Get("/", h.HandleRoot)
	r.Get("/index.html", h.HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot serves the questionnaire page.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	page, err := Index()
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(page)
}
