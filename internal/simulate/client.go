package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/valuescore/internal/domain/model"
)

// client is a thin JSON client for the questionnaire API.
type client struct {
	base string
	http *http.Client
}

func newClient(base string, timeout time.Duration) *client {
	return &client{base: base, http: &http.Client{Timeout: timeout}}
}

type sessionView struct {
	Categories []model.Category `json:"categories"`
}

type receiptView struct {
	TotalScore int  `json:"totalScore"`
	Persisted  bool `json:"persisted"`
	Replayed   bool `json:"replayed"`
}

func (c *client) do(ctx context.Context, method, path string, body any, header http.Header, out any) error {
	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnexpected, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnexpected, method, path, err)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

func (c *client) session(ctx context.Context) (sessionView, error) {
	var v sessionView
	err := c.do(ctx, http.MethodGet, "/api/session", nil, nil, &v)
	return v, err
}

func (c *client) setRating(ctx context.Context, cat model.Category, f model.Field, value int) error {
	body := map[string]any{"category": cat, "field": f, "value": value}
	return c.do(ctx, http.MethodPut, "/api/ratings", body, nil, nil)
}

func (c *client) submit(ctx context.Context) (receiptView, error) {
	var v receiptView
	h := http.Header{}
	h.Set("Idempotency-Key", uuid.NewString())
	err := c.do(ctx, http.MethodPost, "/api/submit", nil, h, &v)
	return v, err
}
