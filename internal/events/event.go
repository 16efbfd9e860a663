package events

import (
	"time"
)

// Kind discriminates the three ingestible event variants.
type Kind string

const (
	KindError    Kind = "error"
	KindLog      Kind = "log"
	KindNotFound Kind = "not_found"
)

// Table is the event-store table the kind is appended to.
func (k Kind) Table() string {
	switch k {
	case KindError:
		return "errors"
	case KindLog:
		return "logs"
	case KindNotFound:
		return "not_found_pages"
	}
	return ""
}

// Feature is the entitlement feature tag charged for the kind.
func (k Kind) Feature() string {
	switch k {
	case KindError:
		return "error"
	case KindLog:
		return "log"
	case KindNotFound:
		return "404_page_tracking"
	}
	return ""
}

// Enrichment carries request metadata derived by the resolver. Nil pointer
// fields mean the value could not be determined.
type Enrichment struct {
	BrowserName    *string
	BrowserVersion *string
	OSName         *string
	OSVersion      *string
	DeviceType     string
	Country        *string
	Region         *string
	City           *string
	Org            *string
	Postal         *string
	Loc            *string
	Domain         *string
}

// BuildRow assembles the full wire row for an event. Every column of the
// target table is present in the result; caller-supplied payload values win
// over derived enrichment, absent values are explicit nulls.
func BuildRow(kind Kind, id, clientID string, userID *string, userAgent, clientIP string, payload map[string]any, enr Enrichment, now time.Time) map[string]any {
	switch kind {
	case KindError:
		return buildErrorRow(id, clientID, userID, userAgent, clientIP, payload, enr, now)
	case KindLog:
		return buildLogRow(id, clientID, userID, payload, now)
	case KindNotFound:
		return buildNotFoundRow(id, clientID, userAgent, clientIP, payload, enr, now)
	}
	return nil
}

func buildErrorRow(id, clientID string, userID *string, userAgent, clientIP string, payload map[string]any, enr Enrichment, now time.Time) map[string]any {
	row := map[string]any{
		"id":               id,
		"client_id":        clientID,
		"user_id":          ptrVal(userID),
		"message":          field(payload, "message"),
		"severity":         field(payload, "severity"),
		"error_type":       field(payload, "error_type"),
		"url":              field(payload, "url"),
		"tags":             field(payload, "tags"),
		"occurrence_count": field(payload, "occurrence_count"),
		"first_occurrence": NormalizeTimestamp(field(payload, "first_occurrence")),
		"last_occurrence":  NormalizeTimestamp(field(payload, "last_occurrence")),
		"resolved_at":      NormalizeTimestamp(field(payload, "resolved_at")),
		"created_at":       FormatTimestamp(now),
		"updated_at":       FormatTimestamp(now),
	}
	applyEnrichment(row, payload, userAgent, clientIP, enr)
	return row
}

func buildLogRow(id, clientID string, userID *string, payload map[string]any, now time.Time) map[string]any {
	row := map[string]any{
		"id":          id,
		"client_id":   clientID,
		"message":     field(payload, "message"),
		"level":       field(payload, "level"),
		"source":      field(payload, "source"),
		"context":     field(payload, "context"),
		"environment": field(payload, "environment"),
		"session_id":  field(payload, "session_id"),
		"created_at":  FormatTimestamp(now),
	}
	// Caller-supplied user_id wins over the derived identity.
	if v, ok := payload["user_id"]; ok && v != nil {
		row["user_id"] = v
	} else {
		row["user_id"] = ptrVal(userID)
	}
	return row
}

func buildNotFoundRow(id, clientID, userAgent, clientIP string, payload map[string]any, enr Enrichment, now time.Time) map[string]any {
	row := map[string]any{
		"id":         id,
		"client_id":  clientID,
		"url":        field(payload, "url"),
		"path":       field(payload, "path"),
		"referrer":   field(payload, "referrer"),
		"created_at": FormatTimestamp(now),
	}
	applyEnrichment(row, payload, userAgent, clientIP, enr)
	return row
}

// applyEnrichment fills the shared enrichment columns, keeping any value the
// caller already supplied verbatim.
func applyEnrichment(row, payload map[string]any, userAgent, clientIP string, enr Enrichment) {
	row["user_agent"] = override(payload, "user_agent", strOrNil(userAgent))
	row["ip_address"] = override(payload, "ip_address", strOrNil(clientIP))
	row["browser_name"] = override(payload, "browser_name", ptrVal(enr.BrowserName))
	row["browser_version"] = override(payload, "browser_version", ptrVal(enr.BrowserVersion))
	row["os_name"] = override(payload, "os_name", ptrVal(enr.OSName))
	row["os_version"] = override(payload, "os_version", ptrVal(enr.OSVersion))
	row["device_type"] = override(payload, "device_type", enr.DeviceType)
	row["country"] = override(payload, "country", ptrVal(enr.Country))
	row["region"] = override(payload, "region", ptrVal(enr.Region))
	row["city"] = override(payload, "city", ptrVal(enr.City))
	row["org"] = override(payload, "org", ptrVal(enr.Org))
	row["postal"] = override(payload, "postal", ptrVal(enr.Postal))
	row["loc"] = override(payload, "loc", ptrVal(enr.Loc))
	row["domain"] = override(payload, "domain", ptrVal(enr.Domain))
}

func field(payload map[string]any, key string) any {
	if v, ok := payload[key]; ok {
		return v
	}
	return nil
}

func override(payload map[string]any, key string, derived any) any {
	if v, ok := payload[key]; ok && v != nil {
		if s, isStr := v.(string); !isStr || s != "" {
			return v
		}
	}
	return derived
}

func ptrVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
