package realtime

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type triggerRequest struct {
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data"`
}

// Broadcaster pushes best-effort notifications to subscribed sessions through
// the realtime pub/sub service. Callers log and swallow errors; a failed
// broadcast never changes an already-determined ingestion outcome.
type Broadcaster struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewBroadcaster(baseURL, apiKey string, timeout time.Duration) *Broadcaster {
	return &Broadcaster{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Trigger publishes event with data on channel.
func (b *Broadcaster) Trigger(ctx context.Context, channel, event string, data map[string]any) error {
	body, err := json.Marshal(triggerRequest{Channel: channel, Event: event, Data: data})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/trigger", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("broadcast returned status %d", resp.StatusCode)
	}
	return nil
}
