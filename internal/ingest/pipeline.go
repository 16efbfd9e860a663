package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/ingest-api/internal/events"
	"github.com/pulsetrack/ingest-api/internal/metrics"
)

var (
	// ErrQuotaExceeded means the quota gate explicitly denied the event.
	// No persistence side effect has happened when this is returned.
	ErrQuotaExceeded = errors.New("quota exceeded for client")

	// ErrStoreFailure means the event store insert failed after quota and
	// enrichment succeeded.
	ErrStoreFailure = errors.New("failed to persist event")
)

// Store appends one row to a named table.
type Store interface {
	Insert(ctx context.Context, table string, row map[string]any) error
}

// Gate decides whether a feature may be consumed by a client.
type Gate interface {
	Allowed(ctx context.Context, featureID, clientID string) bool
}

// Enricher derives request metadata.
type Enricher interface {
	Resolve(ctx context.Context, userAgent, clientIP, pageURL string) events.Enrichment
}

// Notifier publishes a best-effort realtime event.
type Notifier interface {
	Trigger(ctx context.Context, channel, event string, data map[string]any) error
}

// Request is one inbound event to ingest.
type Request struct {
	Kind      events.Kind
	ClientID  string
	UserID    *string // derived identity, nil when anonymous
	UserAgent string
	ClientIP  string
	Payload   map[string]any
}

// Pipeline runs the ingestion stages strictly in sequence per request:
// quota check, enrichment, normalization, sanitization, persistence, and a
// best-effort notification. Each external call runs under its own deadline.
type Pipeline struct {
	store        Store
	gate         Gate
	enricher     Enricher
	notifier     Notifier
	stageTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

func NewPipeline(store Store, gate Gate, enricher Enricher, notifier Notifier, stageTimeout time.Duration) *Pipeline {
	return &Pipeline{
		store:        store,
		gate:         gate,
		enricher:     enricher,
		notifier:     notifier,
		stageTimeout: stageTimeout,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Ingest processes one event and returns its assigned id.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (string, error) {
	qctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	if !p.gate.Allowed(qctx, req.Kind.Feature(), req.ClientID) {
		metrics.QuotaRejections.WithLabelValues(string(req.Kind)).Inc()
		return "", ErrQuotaExceeded
	}

	id := p.newID()

	// Log events skip enrichment entirely; they only get an id and created_at.
	var enr events.Enrichment
	if req.Kind != events.KindLog {
		ectx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		enr = p.enricher.Resolve(ectx, req.UserAgent, req.ClientIP, stringField(req.Payload, "url"))
		cancel()
	}

	row := events.BuildRow(req.Kind, id, req.ClientID, req.UserID, req.UserAgent, req.ClientIP, req.Payload, enr, p.now())
	row = events.Sanitize(row).(map[string]any)

	sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	if err := p.store.Insert(sctx, req.Kind.Table(), row); err != nil {
		slog.Error("event persist failed", "kind", req.Kind, "table", req.Kind.Table(), "client_id", req.ClientID, "error", err)
		metrics.StoreInsertFailures.WithLabelValues(req.Kind.Table()).Inc()
		return "", ErrStoreFailure
	}
	metrics.EventsIngested.WithLabelValues(string(req.Kind)).Inc()

	p.notify(req, id, row)
	return id, nil
}

// notify broadcasts the ingested event. Error events go to the authenticated
// user's channel only; log and not-found events broadcast to the client-id
// channel unconditionally. Failures are logged and swallowed.
func (p *Pipeline) notify(req Request, id string, row map[string]any) {
	if p.notifier == nil {
		return
	}

	var channel, event string
	switch req.Kind {
	case events.KindError:
		if req.UserID == nil {
			return
		}
		channel, event = "user-"+*req.UserID, "new-error"
	case events.KindLog:
		channel, event = "client-"+req.ClientID, "new-log"
	case events.KindNotFound:
		channel, event = "client-"+req.ClientID, "new-404"
	default:
		return
	}

	// The response is already determined by the persist stage, so the
	// notification runs on its own deadline, detached from the request.
	nctx, cancel := context.WithTimeout(context.Background(), p.stageTimeout)
	defer cancel()
	if err := p.notifier.Trigger(nctx, channel, event, map[string]any{"id": id, "row": row}); err != nil {
		slog.Warn("realtime notification failed", "kind", req.Kind, "channel", channel, "error", err)
		metrics.NotifyFailures.Inc()
	}
}

func stringField(payload map[string]any, key string) string {
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}
