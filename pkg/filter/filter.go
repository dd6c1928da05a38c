// Package filter narrows the ad list by keyword tags and computes the tag
// vocabulary offered to the user.
package filter

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
)

// DefaultVocabularySize is how many tags the dashboard offers.
const DefaultVocabularySize = 20

var tokenRE = regexp.MustCompile(`[a-z0-9àâäéèêëïîôöùûüç]{4,}`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields("le la les du des de un une et en pour avec dans sur très état plus tout") {
		stopWords[w] = struct{}{}
	}
}

// Tag is one vocabulary word and the number of times it appeared.
type Tag struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Filter is the active tag set plus the manual-only switch. The zero value is
// ready to use.
type Filter struct {
	mu         sync.RWMutex
	active     []string
	manualOnly bool
}

// Toggle adds tag when absent and removes it when present. It returns whether
// the tag is active afterwards.
func (f *Filter) Toggle(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.active {
		if t == tag {
			f.active = append(f.active[:i], f.active[i+1:]...)
			return false
		}
	}
	f.active = append(f.active, tag)
	return true
}

// Clear empties the tag set. The manual-only switch is left alone.
func (f *Filter) Clear() {
	f.mu.Lock()
	f.active = nil
	f.mu.Unlock()
}

// Active returns the tags in the order they were enabled.
func (f *Filter) Active() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.active...)
}

// IsActive reports whether tag is enabled.
func (f *Filter) IsActive(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.active {
		if t == tag {
			return true
		}
	}
	return false
}

func (f *Filter) SetManualOnly(on bool) {
	f.mu.Lock()
	f.manualOnly = on
	f.mu.Unlock()
}

func (f *Filter) ManualOnly() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.manualOnly
}

// Apply returns the ads matching every active tag, restricted to manual ads
// when the manual-only switch is on.
func (f *Filter) Apply(ads []ad.Ad) []ad.Ad {
	f.mu.RLock()
	tags := append([]string(nil), f.active...)
	manual := f.manualOnly
	f.mu.RUnlock()

	out := Apply(ads, tags)
	if !manual {
		return out
	}
	kept := out[:0:0]
	for _, a := range out {
		if a.IsManual() {
			kept = append(kept, a)
		}
	}
	return kept
}

// Apply keeps the ads whose lowercase title and summary contain every tag.
// With no tags it returns ads unchanged.
func Apply(ads []ad.Ad, tags []string) []ad.Ad {
	if len(tags) == 0 {
		return ads
	}
	out := make([]ad.Ad, 0, len(ads))
	for _, a := range ads {
		if matchesAll(a.Text(), tags) {
			out = append(out, a)
		}
	}
	return out
}

func matchesAll(text string, tags []string) bool {
	for _, t := range tags {
		if !strings.Contains(text, strings.ToLower(t)) {
			return false
		}
	}
	return true
}

// Vocabulary counts the tokens of the given ads and returns the limit most
// frequent, ties in first-seen order. Callers pass the unfiltered list so the
// offered tags do not shrink as filters are applied.
func Vocabulary(ads []ad.Ad, limit int) []Tag {
	counts := map[string]int{}
	var order []string
	for _, a := range ads {
		for _, tok := range tokenRE.FindAllString(a.Text(), -1) {
			if _, stop := stopWords[tok]; stop {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}
	tags := make([]Tag, len(order))
	for i, w := range order {
		tags[i] = Tag{Word: w, Count: counts[w]}
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Count > tags[j].Count })
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}
