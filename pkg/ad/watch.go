package ad

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/gdlpLG/lbcwatch/pkg/decode"
)

// RefreshMode controls how a watch is re-scanned.
type RefreshMode string

const (
	RefreshManual RefreshMode = "manual"
	RefreshAuto   RefreshMode = "auto"
	RefreshNone   RefreshMode = "none"
)

// DefaultRefreshInterval is used when an auto watch has no interval, in minutes.
const DefaultRefreshInterval = 60

// LocationType enumerates the supported location filters.
type LocationType string

const (
	LocationCity       LocationType = "city"
	LocationDepartment LocationType = "department"
	LocationRegion     LocationType = "region"
)

// Location is one geographic filter of a watch. Radius only applies to cities.
type Location struct {
	Type   LocationType `json:"type"`
	Value  string       `json:"value"`
	Radius int          `json:"radius,omitempty"`
}

// Watch is a named recurring search. The server owns it; the client only keeps
// snapshots for display.
type Watch struct {
	Name            string          `json:"name"`
	Query           string          `json:"query_text"`
	RefreshMode     RefreshMode     `json:"refresh_mode"`
	RefreshInterval int             `json:"refresh_interval"`
	Platforms       map[string]bool `json:"platforms"`
	Locations       []Location      `json:"locations"`
	IsActive        Flag            `json:"is_active"`
	LastRun         string          `json:"last_run,omitempty"`
	LastViewed      string          `json:"last_viewed,omitempty"`
	AIContext       string          `json:"ai_context,omitempty"`
}

type watchWire struct {
	Name            string          `json:"name"`
	Query           string          `json:"query_text"`
	RefreshMode     string          `json:"refresh_mode"`
	RefreshInterval json.Number     `json:"refresh_interval"`
	Platforms       json.RawMessage `json:"platforms"`
	Locations       json.RawMessage `json:"locations"`
	IsActive        *Flag           `json:"is_active"`
	LastRun         *string         `json:"last_run"`
	LastViewed      *string         `json:"last_viewed"`
	AIContext       *string         `json:"ai_context"`
}

// UnmarshalJSON decodes the platform and location metadata through the
// tolerant decoder, since older rows store them as foreign literal strings.
func (w *Watch) UnmarshalJSON(b []byte) error {
	var wire watchWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	out := Watch{
		Name:        strings.TrimSpace(wire.Name),
		Query:       wire.Query,
		RefreshMode: RefreshMode(strings.ToLower(strings.TrimSpace(wire.RefreshMode))),
		Platforms:   map[string]bool{},
		IsActive:    true,
	}
	if n, err := wire.RefreshInterval.Int64(); err == nil {
		out.RefreshInterval = int(n)
	} else if f, err := wire.RefreshInterval.Float64(); err == nil {
		out.RefreshInterval = int(f)
	}
	if wire.IsActive != nil {
		out.IsActive = *wire.IsActive
	}
	if wire.LastRun != nil {
		out.LastRun = *wire.LastRun
	}
	if wire.LastViewed != nil {
		out.LastViewed = *wire.LastViewed
	}
	if wire.AIContext != nil {
		out.AIContext = *wire.AIContext
	}

	var platforms map[string]any
	if decode.Field(wire.Platforms, &platforms) {
		for name, v := range platforms {
			out.Platforms[name] = truthy(v)
		}
	}
	var locations []Location
	if decode.Field(wire.Locations, &locations) {
		out.Locations = locations
	}

	*w = out.Normalize()
	return nil
}

// Normalize applies the defaulting rules: unknown refresh modes become
// manual and auto watches always carry an interval.
func (w Watch) Normalize() Watch {
	switch w.RefreshMode {
	case RefreshManual, RefreshAuto, RefreshNone:
	default:
		w.RefreshMode = RefreshManual
	}
	if w.RefreshInterval <= 0 {
		w.RefreshInterval = DefaultRefreshInterval
	}
	locs := make([]Location, 0, len(w.Locations))
	for _, l := range w.Locations {
		l.Value = strings.TrimSpace(l.Value)
		if l.Value == "" {
			continue
		}
		if l.Type != LocationCity {
			l.Radius = 0
		}
		locs = append(locs, l)
	}
	w.Locations = locs
	return w
}

// EnabledPlatforms returns the sorted names of enabled platforms.
func (w Watch) EnabledPlatforms() []string {
	out := make([]string, 0, len(w.Platforms))
	for name, on := range w.Platforms {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes"
	default:
		return false
	}
}
