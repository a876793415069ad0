package api

import "github.com/okian/valuescore/internal/domain/model"

type ratingView struct {
	Category   model.Category `json:"category"`
	Importance int            `json:"importance"`
	Match      int            `json:"match"`
}

type sessionResponse struct {
	ID             string       `json:"id"`
	Date           string       `json:"date"`
	Categories     []string     `json:"categories"`
	Ratings        []ratingView `json:"ratings"`
	HistoryVisible bool         `json:"historyVisible"`
	UnitLabel      string       `json:"unitLabel"`
}

type ratingRequest struct {
	Category string `json:"category"`
	Field    string `json:"field"`
	Value    *int   `json:"value"`
}

type submitResponse struct {
	TotalScore int    `json:"totalScore"`
	Date       string `json:"date"`
	Persisted  bool   `json:"persisted"`
	Message    string `json:"message"`
	Replayed   bool   `json:"replayed"`
}

type entryView struct {
	Index      int                   `json:"index"`
	Date       string                `json:"date"`
	TotalScore int                   `json:"totalScore"`
	Ratings    model.RatingSet       `json:"ratings"`
	Deltas     []model.CategoryDelta `json:"deltas"`
}

type historyResponse struct {
	Visible bool        `json:"visible"`
	Entries []entryView `json:"entries"`
}

type deleteResponse struct {
	Deleted bool        `json:"deleted"`
	Entries []entryView `json:"entries"`
}

func orderedRatings(order []model.Category, rs model.RatingSet) []ratingView {
	out := make([]ratingView, 0, len(order))
	for _, c := range order {
		p := rs[c]
		out = append(out, ratingView{Category: c, Importance: p.Importance, Match: p.Match})
	}
	return out
}

func entryViews(order []model.Category, log []model.HistoryEntry, unit string) []entryView {
	out := make([]entryView, 0, len(log))
	for i, e := range log {
		out = append(out, entryView{
			Index:      i,
			Date:       e.Date,
			TotalScore: e.TotalScore,
			Ratings:    e.Ratings,
			Deltas:     e.Deltas(order, unit),
		})
	}
	return out
}

func labels(categories []model.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
