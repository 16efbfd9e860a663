package enrich

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/mileusna/useragent"
	"golang.org/x/net/publicsuffix"

	"github.com/pulsetrack/ingest-api/internal/events"
	"github.com/pulsetrack/ingest-api/internal/geo"
)

// GeoLookup resolves an IP address to a location.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (*geo.Location, error)
}

// Resolver derives browser, OS, device, geolocation and registrable-domain
// metadata from raw request data. It is best-effort throughout: any field it
// cannot determine stays nil and resolution never returns an error.
type Resolver struct {
	geo GeoLookup
}

func NewResolver(geo GeoLookup) *Resolver {
	return &Resolver{geo: geo}
}

func (r *Resolver) Resolve(ctx context.Context, userAgent, clientIP, pageURL string) events.Enrichment {
	enr := events.Enrichment{DeviceType: "desktop"}

	if userAgent != "" {
		ua := useragent.Parse(userAgent)
		enr.BrowserName = nonEmpty(ua.Name)
		enr.BrowserVersion = nonEmpty(ua.Version)
		enr.OSName = nonEmpty(ua.OS)
		enr.OSVersion = nonEmpty(ua.OSVersion)
		switch {
		case ua.Mobile:
			enr.DeviceType = "mobile"
		case ua.Tablet:
			enr.DeviceType = "tablet"
		}
	}

	if clientIP != "" && r.geo != nil {
		loc, err := r.geo.Lookup(ctx, clientIP)
		if err != nil {
			slog.Warn("geo lookup failed, continuing without location", "ip", clientIP, "error", err)
		} else if loc != nil {
			enr.Country = loc.Country
			enr.Region = loc.Region
			enr.City = loc.City
			enr.Org = loc.Org
			enr.Postal = loc.Postal
			enr.Loc = loc.Loc
		}
	}

	enr.Domain = registrableDomain(pageURL)
	return enr
}

// registrableDomain extracts the eTLD+1 from a page URL, nil when the URL is
// absent or unparsable.
func registrableDomain(pageURL string) *string {
	if pageURL == "" {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return nil
	}
	return &domain
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
