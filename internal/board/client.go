package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client talks to the JSON API. An empty BaseURL means same origin, which is
// what the browser build uses.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient}
}

// call sends body as JSON and decodes the result envelope. Failures reported
// by the API come back in the Result; only transport problems are errors.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (Result[T], error) {
	var res Result[T]
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return res, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decode %s %s (status %d): %w", method, path, resp.StatusCode, err)
	}
	return res, nil
}

func (c *Client) ListLeads(ctx context.Context) (Result[[]Lead], error) {
	return call[[]Lead](ctx, c, http.MethodGet, "/api/leads", nil)
}

func (c *Client) CreateLead(ctx context.Context, f LeadForm) (Result[*Lead], error) {
	return call[*Lead](ctx, c, http.MethodPost, "/api/leads", f)
}

func (c *Client) UpdateStatus(ctx context.Context, leadID, status string) (Result[string], error) {
	return call[string](ctx, c, http.MethodPut, leadPath(leadID, "status"), map[string]string{"status": status})
}

func (c *Client) AddNote(ctx context.Context, leadID, content string) (Result[*Note], error) {
	return call[*Note](ctx, c, http.MethodPost, leadPath(leadID, "notes"), map[string]string{"content": content})
}

func (c *Client) Schedule(ctx context.Context, leadID string, f ScheduleForm) (Result[*Appointment], error) {
	return call[*Appointment](ctx, c, http.MethodPost, leadPath(leadID, "appointments"), f)
}

func (c *Client) CancelAppointments(ctx context.Context, leadID string) (Result[int64], error) {
	return call[int64](ctx, c, http.MethodDelete, leadPath(leadID, "appointments"), nil)
}

func leadPath(id, sub string) string {
	return "/api/leads/" + url.PathEscape(id) + "/" + sub
}
