package model

import (
	"sort"
	"strconv"
	"time"
)

// DateLayout is the calendar-date format stored on history entries.
const DateLayout = "2006-01-02"

// HistoryEntry is one persisted, dated submission snapshot.
// TotalScore is fixed when the entry is created and never recomputed.
type HistoryEntry struct {
	Ratings    RatingSet `json:"ratings"`
	Date       string    `json:"date"`
	TotalScore int       `json:"totalScore"`
}

// FormatDate renders t as the UTC calendar date used on entries.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// CategoryDelta is the per-category difference shown in history views.
type CategoryDelta struct {
	Category Category `json:"category"`
	Delta    int      `json:"delta"`
	Display  string   `json:"display"`
}

// Deltas lists match minus importance for every rated category, suffixed
// with unit. Categories follow order first; labels the entry carries that
// are not in order (older category sets) follow sorted by label.
func (e HistoryEntry) Deltas(order []Category, unit string) []CategoryDelta {
	out := make([]CategoryDelta, 0, len(e.Ratings))
	seen := make(map[Category]bool, len(order))
	add := func(c Category) {
		d := e.Ratings[c].Delta()
		out = append(out, CategoryDelta{Category: c, Delta: d, Display: strconv.Itoa(d) + unit})
	}
	for _, c := range order {
		if _, ok := e.Ratings[c]; ok {
			add(c)
			seen[c] = true
		}
	}
	var rest []Category
	for c := range e.Ratings {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, c := range rest {
		add(c)
	}
	return out
}

// CloneHistory returns a copy of log whose entries share no rating maps with it.
func CloneHistory(log []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(log))
	for i, e := range log {
		e.Ratings = e.Ratings.Clone()
		out[i] = e
	}
	return out
}
