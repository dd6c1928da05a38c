// Package ad defines the listing and watch records exchanged with the
// aggregation backend, with explicit defaulting for the loosely typed fields
// it sends.
package ad

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SourceDefault is assumed when the backend omits the source tag.
	SourceDefault = "LBC"
	// SourceManual marks ads the user added by hand.
	SourceManual = "MANUAL"

	// GemThreshold is the AI score from which an ad counts as a gem.
	GemThreshold = 8.5
)

// ID identifies an ad. The backend sends it as either a JSON string or a
// number; both compare by their string form.
type ID string

// UnmarshalJSON accepts strings and numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("ad: id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Flag is a boolean that also accepts the 0/1 integers sqlite hands back.
type Flag bool

// UnmarshalJSON accepts true/false, numbers and numeric strings.
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*f = false
	case bytes.Equal(b, []byte("true")):
		*f = true
	case bytes.Equal(b, []byte("false")):
		*f = false
	default:
		s := strings.Trim(string(b), `"`)
		if s == "" {
			*f = false
			return nil
		}
		if v, err := strconv.ParseBool(s); err == nil {
			*f = Flag(v)
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("ad: flag %s: %w", b, err)
		}
		*f = n != 0
	}
	return nil
}

// Ad is one listing. Identity is ID; every other field only changes through a
// wholesale replace from the server.
type Ad struct {
	ID           ID       `json:"id"`
	Title        string   `json:"title"`
	Price        *float64 `json:"price"`
	Location     string   `json:"location,omitempty"`
	Date         string   `json:"date,omitempty"`
	URL          string   `json:"url,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Source       string   `json:"source,omitempty"`
	AIScore      *float64 `json:"ai_score"`
	AISummary    *string  `json:"ai_summary"`
	AITips       *string  `json:"ai_tips"`
	PriceDropped Flag     `json:"price_dropped,omitempty"`
	IsPro        Flag     `json:"is_pro,omitempty"`
	SearchName   string   `json:"search_name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// Normalize applies the defaulting rules for fields the backend may omit.
func (a Ad) Normalize() Ad {
	a.ID = ID(strings.TrimSpace(string(a.ID)))
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		a.Title = "(untitled)"
	}
	a.Source = strings.ToUpper(strings.TrimSpace(a.Source))
	if a.Source == "" {
		a.Source = SourceDefault
	}
	if a.AISummary != nil && strings.TrimSpace(*a.AISummary) == "" {
		a.AISummary = nil
	}
	if a.AITips != nil && strings.TrimSpace(*a.AITips) == "" {
		a.AITips = nil
	}
	return a
}

// Clone returns a copy that shares no pointers with a.
func (a Ad) Clone() Ad {
	a.Price = cloneFloat(a.Price)
	a.AIScore = cloneFloat(a.AIScore)
	a.AISummary = cloneString(a.AISummary)
	a.AITips = cloneString(a.AITips)
	return a
}

// Scored reports whether the AI has rated the ad. Unscored is distinct from 0.
func (a Ad) Scored() bool { return a.AIScore != nil }

// Score returns the AI score, or 0 for unscored ads.
func (a Ad) Score() float64 {
	if a.AIScore == nil {
		return 0
	}
	return *a.AIScore
}

// IsGem reports whether the ad scored at or above GemThreshold.
func (a Ad) IsGem() bool { return a.Scored() && *a.AIScore >= GemThreshold }

// IsManual reports whether the ad was added by hand.
func (a Ad) IsManual() bool { return strings.EqualFold(a.Source, SourceManual) }

// PriceValue returns the price, or 0 when the ad has none.
func (a Ad) PriceValue() float64 {
	if a.Price == nil {
		return 0
	}
	return *a.Price
}

// Summary returns the AI summary or "".
func (a Ad) Summary() string {
	if a.AISummary == nil {
		return ""
	}
	return *a.AISummary
}

// Tips returns the AI tips or "".
func (a Ad) Tips() string {
	if a.AITips == nil {
		return ""
	}
	return *a.AITips
}

// Text is the lowercase title and summary used for tag matching.
func (a Ad) Text() string {
	return strings.ToLower(a.Title + " " + a.Summary())
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime reads the timestamps the server sends. Unparsable or missing
// values yield the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Published parses Date.
func (a Ad) Published() time.Time {
	return ParseTime(a.Date)
}

// IsNew reports whether the ad was published within the last day.
func (a Ad) IsNew(now time.Time) bool {
	p := a.Published()
	if p.IsZero() {
		return false
	}
	return now.Sub(p) < 24*time.Hour
}

// PricePoint is one entry of an ad's price history.
type PricePoint struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
