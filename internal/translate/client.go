package translate

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type translateRequest struct {
	Content      any    `json:"content"`
	SourceLocale string `json:"source_locale"`
	TargetLocale string `json:"target_locale"`
}

type translateResponse struct {
	Result any `json:"result"`
}

// Client calls the external localization service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Translate sends content for translation and returns the service's result.
func (c *Client) Translate(ctx context.Context, content any, sourceLocale, targetLocale string) (any, error) {
	body, err := json.Marshal(translateRequest{
		Content:      content,
		SourceLocale: sourceLocale,
		TargetLocale: targetLocale,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Result, nil
}
