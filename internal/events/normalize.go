package events

import (
	"time"
)

// wireLayout is the event-store timestamp column format. The store matches it
// byte for byte: no 'T' separator, no zone suffix, three millisecond digits.
const wireLayout = "2006-01-02 15:04:05.000"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999",
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders t in the store's wire format, server-local time.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(wireLayout)
}

// NormalizeTimestamp converts heterogeneous inbound date representations
// (absent, string, epoch milliseconds, time.Time) into a wire timestamp
// string or nil. It never fails: anything unparseable collapses to nil.
func NormalizeTimestamp(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return FormatTimestamp(t)
	case string:
		if t == "" {
			return nil
		}
		for _, layout := range parseLayouts {
			if parsed, err := time.ParseInLocation(layout, t, time.Local); err == nil {
				return FormatTimestamp(parsed)
			}
		}
		return nil
	case float64:
		return FormatTimestamp(time.UnixMilli(int64(t)))
	case int64:
		return FormatTimestamp(time.UnixMilli(t))
	case int:
		return FormatTimestamp(time.UnixMilli(int64(t)))
	}
	return nil
}
