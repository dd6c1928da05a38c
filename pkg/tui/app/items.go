package teaui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/filter"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/tui/theme"
)

// adItem is a row of the ad list.
type adItem struct {
	ad       ad.Ad
	selected bool
	now      time.Time
	theme    theme.Theme
}

func (it adItem) Title() string {
	var b strings.Builder
	if it.selected {
		b.WriteString(it.theme.Ads.Selected.Render("● "))
	} else {
		b.WriteString("  ")
	}
	switch {
	case it.ad.IsGem():
		b.WriteString(it.theme.Ads.Gem.Render("✨ "))
	case bool(it.ad.PriceDropped):
		b.WriteString(it.theme.Ads.Drop.Render("↓ "))
	case it.ad.IsNew(it.now):
		b.WriteString(it.theme.Ads.New.Render("• "))
	default:
		b.WriteString("  ")
	}
	b.WriteString(it.ad.Title)
	b.WriteString("  ")
	b.WriteString(printers.Price(it.ad))
	if it.ad.Scored() {
		score := fmt.Sprintf("  %g/10", it.ad.Score())
		if it.ad.IsGem() {
			score = it.theme.Ads.Gem.Render(score)
		}
		b.WriteString(score)
	}
	return b.String()
}

func (it adItem) Description() string {
	parts := []string{it.ad.Location, it.ad.Date}
	if it.ad.IsManual() {
		parts = append(parts, "manual")
	}
	if s := it.ad.Summary(); s != "" {
		parts = append(parts, s)
	}
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return it.theme.Ads.Faint.Render(strings.Join(kept, " · "))
}

func (it adItem) FilterValue() string { return it.ad.Title }

// tagItem is a row of the tag picker.
type tagItem struct {
	tag    filter.Tag
	active bool
	theme  theme.Theme
}

func (it tagItem) Title() string {
	label := fmt.Sprintf("%s (%d)", it.tag.Word, it.tag.Count)
	if it.active {
		return it.theme.Ads.TagOn.Render("[x] " + label)
	}
	return it.theme.Ads.Tag.Render("[ ] " + label)
}

func (it tagItem) Description() string { return "" }
func (it tagItem) FilterValue() string { return it.tag.Word }

func adItems(ads []ad.Ad, selected func(ad.ID) bool, now time.Time, th theme.Theme) []list.Item {
	items := make([]list.Item, 0, len(ads))
	for _, a := range ads {
		items = append(items, adItem{ad: a, selected: selected(a.ID), now: now, theme: th})
	}
	return items
}

func tagItems(tags []filter.Tag, active func(string) bool, th theme.Theme) []list.Item {
	items := make([]list.Item, 0, len(tags))
	for _, t := range tags {
		items = append(items, tagItem{tag: t, active: active(t.Word), theme: th})
	}
	return items
}
