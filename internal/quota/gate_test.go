package quota

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGate_FailsOpenOnServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGate(srv.URL, "key", time.Second)
	if !g.Allowed(context.Background(), "error", "c1") {
		t.Error("expected fail-open allow on server error")
	}
}

func TestGate_FailsOpenOnUnreachableService(t *testing.T) {
	t.Parallel()

	g := NewGate("http://127.0.0.1:1", "key", 200*time.Millisecond)
	if !g.Allowed(context.Background(), "log", "c1") {
		t.Error("expected fail-open allow when service is unreachable")
	}
}

func TestGate_FailsOpenOnMalformedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	g := NewGate(srv.URL, "", time.Second)
	if !g.Allowed(context.Background(), "error", "c1") {
		t.Error("expected fail-open allow on malformed response")
	}
}

func TestGate_DeniesOnExplicitFalse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"allowed":false}`))
	}))
	defer srv.Close()

	g := NewGate(srv.URL, "key", time.Second)
	if g.Allowed(context.Background(), "error", "c1") {
		t.Error("expected deny when service returns allowed=false")
	}
}

func TestGate_AllowsAndChargesUsage(t *testing.T) {
	t.Parallel()

	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"allowed":true}`))
	}))
	defer srv.Close()

	g := NewGate(srv.URL, "key", time.Second)
	if !g.Allowed(context.Background(), "404_page_tracking", "c9") {
		t.Error("expected allow when service returns allowed=true")
	}

	for _, want := range []string{`"feature_id":"404_page_tracking"`, `"customer_id":"c9"`, `"send_event":true`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body missing %s: %s", want, gotBody)
		}
	}
}

func TestGate_PolicyIsFailOpen(t *testing.T) {
	t.Parallel()

	g := NewGate("http://example.invalid", "", time.Second)
	if g.Policy() != PolicyFailOpen {
		t.Errorf("got policy %q, want %q", g.Policy(), PolicyFailOpen)
	}
}
