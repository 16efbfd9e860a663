package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pulsetrack/ingest-api/internal/events"
	"github.com/pulsetrack/ingest-api/internal/geo"
)

const chromeMacUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

type stubGeo struct {
	loc *geo.Location
	err error
}

func (s *stubGeo) Lookup(_ context.Context, _ string) (*geo.Location, error) {
	return s.loc, s.err
}

func strp(s string) *string { return &s }

func TestResolve_ParsesUserAgent(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	enr := r.Resolve(context.Background(), chromeMacUA, "", "")

	if enr.BrowserName == nil || *enr.BrowserName != "Chrome" {
		t.Errorf("browser name: %v", enr.BrowserName)
	}
	if enr.OSName == nil || *enr.OSName == "" {
		t.Errorf("os name: %v", enr.OSName)
	}
	if enr.DeviceType != "desktop" {
		t.Errorf("device type: %q, want desktop", enr.DeviceType)
	}
}

func TestResolve_MobileDevice(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	enr := r.Resolve(context.Background(), iphoneUA, "", "")
	if enr.DeviceType != "mobile" {
		t.Errorf("device type: %q, want mobile", enr.DeviceType)
	}
}

func TestResolve_DeviceDefaultsToDesktop(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	enr := r.Resolve(context.Background(), "", "", "")
	if enr.DeviceType != "desktop" {
		t.Errorf("device type: %q, want desktop for undetectable UA", enr.DeviceType)
	}
	if enr.BrowserName != nil {
		t.Errorf("browser name should be nil for empty UA, got %v", *enr.BrowserName)
	}
}

func TestResolve_GeoFailureNullsLocation(t *testing.T) {
	t.Parallel()

	r := NewResolver(&stubGeo{err: errors.New("lookup down")})
	enr := r.Resolve(context.Background(), chromeMacUA, "203.0.113.9", "")

	if enr.Country != nil || enr.City != nil || enr.Loc != nil {
		t.Errorf("geo fields should be nil on lookup failure: %+v", enr)
	}
	if enr.BrowserName == nil {
		t.Error("UA parsing should survive a geo failure")
	}
}

func TestResolve_GeoSuccess(t *testing.T) {
	t.Parallel()

	r := NewResolver(&stubGeo{loc: &geo.Location{
		Country: strp("DE"),
		City:    strp("Berlin"),
		Loc:     strp("52.5200,13.4050"),
	}})
	enr := r.Resolve(context.Background(), "", "203.0.113.9", "")

	if enr.Country == nil || *enr.Country != "DE" {
		t.Errorf("country: %v", enr.Country)
	}
	if enr.City == nil || *enr.City != "Berlin" {
		t.Errorf("city: %v", enr.City)
	}
}

func TestRegistrableDomain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://app.example.co.uk/checkout?x=1", "example.co.uk", true},
		{"https://www.example.com/page", "example.com", true},
		{"", "", false},
		{"not a url", "", false},
	}
	for _, tc := range cases {
		got := registrableDomain(tc.in)
		if tc.ok {
			if got == nil || *got != tc.want {
				t.Errorf("registrableDomain(%q) = %v, want %q", tc.in, got, tc.want)
			}
		} else if got != nil {
			t.Errorf("registrableDomain(%q) = %q, want nil", tc.in, *got)
		}
	}
}

func TestResolve_CallerValuesNotOverwritten(t *testing.T) {
	t.Parallel()

	// Precedence is applied at row-build time: derived values only fill
	// fields the caller left absent.
	r := NewResolver(nil)
	enr := r.Resolve(context.Background(), chromeMacUA, "", "https://example.com/x")

	payload := map[string]any{"browser_name": "CustomBrowser"}
	row := events.BuildRow(events.KindError, "id-1", "c1", nil, chromeMacUA, "", payload, enr, time.Now())

	if row["browser_name"] != "CustomBrowser" {
		t.Errorf("caller-supplied browser_name overwritten: %v", row["browser_name"])
	}
	if row["os_name"] == nil {
		t.Error("absent os_name should be filled from enrichment")
	}
}
