package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

// Location is the subset of the geo-IP provider's response the pipeline keeps.
type Location struct {
	Country *string `json:"country"`
	Region  *string `json:"region"`
	City    *string `json:"city"`
	Org     *string `json:"org"`
	Postal  *string `json:"postal"`
	Loc     *string `json:"loc"`
}

// Client looks up IP geolocation against an ipinfo-compatible HTTP API.
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

// Lookup fetches geolocation for ip. Callers treat any error as "no geo data";
// enrichment never aborts on lookup failure.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(ip) + "/json"
	if c.token != "" {
		endpoint += "?token=" + url.QueryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, err
	}
	return &loc, nil
}
