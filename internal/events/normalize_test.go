package events

import (
	"testing"
	"time"
)

func TestNormalizeTimestamp_Nil(t *testing.T) {
	t.Parallel()

	if got := NormalizeTimestamp(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := NormalizeTimestamp(""); got != nil {
		t.Errorf("expected nil for empty string, got %v", got)
	}
}

func TestNormalizeTimestamp_Garbage(t *testing.T) {
	t.Parallel()

	if got := NormalizeTimestamp("not-a-date"); got != nil {
		t.Errorf("expected nil for unparseable input, got %v", got)
	}
	if got := NormalizeTimestamp(struct{}{}); got != nil {
		t.Errorf("expected nil for unsupported type, got %v", got)
	}
}

func TestNormalizeTimestamp_Time(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, time.January, 2, 3, 4, 5, 6*int(time.Millisecond), time.Local)
	got := NormalizeTimestamp(in)
	if got != "2024-01-02 03:04:05.006" {
		t.Errorf("got %v, want 2024-01-02 03:04:05.006", got)
	}
}

func TestNormalizeTimestamp_String(t *testing.T) {
	t.Parallel()

	got := NormalizeTimestamp("2024-01-02 03:04:05")
	if got != "2024-01-02 03:04:05.000" {
		t.Errorf("got %v, want 2024-01-02 03:04:05.000", got)
	}

	got = NormalizeTimestamp("2024-01-02")
	if got != "2024-01-02 00:00:00.000" {
		t.Errorf("got %v, want 2024-01-02 00:00:00.000", got)
	}
}

func TestNormalizeTimestamp_EpochMillis(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, time.June, 15, 10, 20, 30, 450*int(time.Millisecond), time.Local)
	got := NormalizeTimestamp(float64(ref.UnixMilli()))
	if got != FormatTimestamp(ref) {
		t.Errorf("got %v, want %v", got, FormatTimestamp(ref))
	}
}

func TestNormalizeTimestamp_ZeroTime(t *testing.T) {
	t.Parallel()

	if got := NormalizeTimestamp(time.Time{}); got != nil {
		t.Errorf("expected nil for zero time, got %v", got)
	}
}
