package eventstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

// Client appends rows to the columnar event store over its HTTP events API.
// The store accepts one JSON object per line, addressed by table name; every
// row for a table must carry the same field set (the pipeline guarantees
// this before calling Insert).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Insert appends a single row to table.
func (c *Client) Insert(ctx context.Context, table string, row map[string]any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row for %s: %w", table, err)
	}
	body = append(body, '\n')

	endpoint := c.baseURL + "/v0/events?name=" + url.QueryEscape(table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("insert into %s returned status %d: %s", table, resp.StatusCode, detail)
	}
	return nil
}
