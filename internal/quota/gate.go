package quota

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// Policy names the gate's behavior when the entitlement service cannot be
// consulted. The gate is availability-over-strictness: lookup failures allow.
type Policy string

const PolicyFailOpen Policy = "fail_open"

type checkRequest struct {
	FeatureID  string `json:"feature_id"`
	CustomerID string `json:"customer_id"`
	SendEvent  bool   `json:"send_event"`
}

type checkResponse struct {
	Allowed bool `json:"allowed"`
}

// Gate asks the external entitlement service whether a feature may be
// consumed for a client. Each check also records a usage event on the
// service side, so a check is not idempotent.
type Gate struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewGate(baseURL, apiKey string, timeout time.Duration) *Gate {
	return &Gate{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Policy reports the gate's failure policy.
func (g *Gate) Policy() Policy { return PolicyFailOpen }

// Allowed reports whether featureID may be consumed by clientID. Any error
// reaching or decoding the entitlement service is logged and allows the
// request through; only an explicit allowed=false denies.
func (g *Gate) Allowed(ctx context.Context, featureID, clientID string) bool {
	allowed, err := g.check(ctx, featureID, clientID)
	if err != nil {
		slog.Error("quota check failed, allowing request", "feature", featureID, "client_id", clientID, "error", err)
		return true
	}
	return allowed
}

func (g *Gate) check(ctx context.Context, featureID, clientID string) (bool, error) {
	body, err := json.Marshal(checkRequest{
		FeatureID:  featureID,
		CustomerID: clientID,
		SendEvent:  true,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/check", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("entitlement service returned status %d", resp.StatusCode)
	}

	var result checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Allowed, nil
}
