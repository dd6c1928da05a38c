package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/filter"
	"github.com/gdlpLG/lbcwatch/pkg/job"
	"github.com/gdlpLG/lbcwatch/pkg/timeutil"
)

// PrettyPrint renders client state for the terminal.
type PrettyPrint struct {
	Out io.Writer
	// Verbose adds AI summaries and tips under each ad.
	Verbose bool
	// Width wraps summaries; 0 means 80.
	Width int
	// Now is used for the "new" marker; zero means time.Now.
	Now time.Time
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return 80
	}
	return pp.Width
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

var (
	titleColor = color.New(color.Bold, color.Underline)
	faint      = color.New(color.Faint)
	gemColor   = color.New(color.FgHiYellow, color.Bold)
	dropColor  = color.New(color.FgHiGreen)
	newColor   = color.New(color.FgHiCyan)
	errColor   = color.New(color.FgHiRed)
	bold       = color.New(color.Bold)
)

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Println(a ...any) {
	_, _ = fmt.Fprintln(pp.out(), a...)
}

// TitleWithCount prints "title - n ad(s)".
func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	w := pp.out()
	_, _ = titleColor.Fprint(w, title)
	switch count {
	case 1:
		_, _ = faint.Fprintf(w, " - %d ad\n", count)
	default:
		_, _ = faint.Fprintf(w, " - %d ads\n", count)
	}
}

// Ads prints one row per ad. selected marks rows; it may be nil.
func (pp *PrettyPrint) Ads(ads []ad.Ad, selected func(ad.ID) bool) {
	w := pp.out()
	if len(ads) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(w, " none\n\n")
		return
	}

	now := pp.now()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow("", bold.Sprint("ID"), bold.Sprint("Title"), bold.Sprint("Price"), bold.Sprint("Location"), bold.Sprint("Score"), bold.Sprint("Date"))
	for _, a := range ads {
		tbl.AddRow(marks(a, selected, now), a.ID.String(), a.Title, Price(a), orNA(a.Location), scoreCell(a), dateCell(a))
		if pp.Verbose {
			if s := a.Summary(); s != "" {
				tbl.AddRow("", "", faint.Sprint(wordwrap.String(s, pp.width()-20)))
			}
			if t := a.Tips(); t != "" {
				tbl.AddRow("", "", faint.Sprint("tip: "+t))
			}
		}
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w, "")
}

func marks(a ad.Ad, selected func(ad.ID) bool, now time.Time) string {
	var b strings.Builder
	if selected != nil && selected(a.ID) {
		b.WriteString("●")
	} else {
		b.WriteString(" ")
	}
	switch {
	case a.IsGem():
		b.WriteString(gemColor.Sprint("✨"))
	case bool(a.PriceDropped):
		b.WriteString(dropColor.Sprint("↓"))
	case a.IsNew(now):
		b.WriteString(newColor.Sprint("•"))
	default:
		b.WriteString(" ")
	}
	if a.IsManual() {
		b.WriteString("m")
	}
	return b.String()
}

// Price formats the price in euros, or N/A.
func Price(a ad.Ad) string {
	if a.Price == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*a.Price, 'f', -1, 64) + "€"
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func scoreCell(a ad.Ad) string {
	if !a.Scored() {
		return faint.Sprint("-")
	}
	s := strconv.FormatFloat(a.Score(), 'f', -1, 64) + "/10"
	if a.IsGem() {
		return gemColor.Sprint(s)
	}
	return s
}

func dateCell(a ad.Ad) string {
	p := a.Published()
	if p.IsZero() {
		return orNA(a.Date)
	}
	return p.Format("2006-01-02 15:04")
}

// Tags prints the vocabulary, active tags in bold.
func (pp *PrettyPrint) Tags(tags []filter.Tag, active []string) {
	w := pp.out()
	on := map[string]bool{}
	for _, t := range active {
		on[t] = true
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Tag"), bold.Sprint("Ads"))
	for _, t := range tags {
		word := t.Word
		if on[word] {
			word = bold.Sprint("[" + word + "]")
		}
		tbl.AddRow(word, strconv.Itoa(t.Count))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// Watches prints the watch list.
func (pp *PrettyPrint) Watches(ws []ad.Watch) {
	w := pp.out()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold.Sprint("Name"), bold.Sprint("Query"), bold.Sprint("Refresh"), bold.Sprint("Platforms"), bold.Sprint("Locations"), bold.Sprint("Last run"))
	for _, wt := range ws {
		tbl.AddRow(wt.Name, wt.Query, refreshCell(wt), strings.Join(wt.EnabledPlatforms(), ","), locationsCell(wt.Locations), pp.ago(wt.LastRun))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// Watch prints one watch in detail.
func (pp *PrettyPrint) Watch(wt ad.Watch) {
	w := pp.out()
	_, _ = titleColor.Fprintln(w, wt.Name)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = uint(pp.width() - 14)
	tbl.AddRow(faint.Sprint("query"), wt.Query)
	tbl.AddRow(faint.Sprint("refresh"), refreshCell(wt))
	tbl.AddRow(faint.Sprint("active"), strconv.FormatBool(bool(wt.IsActive)))
	tbl.AddRow(faint.Sprint("platforms"), orNA(strings.Join(wt.EnabledPlatforms(), ", ")))
	tbl.AddRow(faint.Sprint("locations"), locationsCell(wt.Locations))
	tbl.AddRow(faint.Sprint("last run"), pp.ago(wt.LastRun))
	tbl.AddRow(faint.Sprint("last viewed"), pp.ago(wt.LastViewed))
	if wt.AIContext != "" {
		tbl.AddRow(faint.Sprint("ai context"), wt.AIContext)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// ago renders a server timestamp relative to now, or the raw value when it
// does not parse.
func (pp *PrettyPrint) ago(ts string) string {
	t := ad.ParseTime(ts)
	if t.IsZero() {
		return orNA(ts)
	}
	return timeutil.Ago(t, pp.now())
}

func refreshCell(w ad.Watch) string {
	if w.RefreshMode == ad.RefreshAuto {
		return fmt.Sprintf("auto/%dm", w.RefreshInterval)
	}
	return string(w.RefreshMode)
}

func locationsCell(locs []ad.Location) string {
	if len(locs) == 0 {
		return "N/A"
	}
	parts := make([]string, 0, len(locs))
	for _, l := range locs {
		if l.Type == ad.LocationCity && l.Radius > 0 {
			parts = append(parts, fmt.Sprintf("%s (+%dkm)", l.Value, l.Radius))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s [%s]", l.Value, l.Type))
	}
	return strings.Join(parts, ", ")
}

// JobStatus prints a one-line status with a progress bar when known.
func (pp *PrettyPrint) JobStatus(st job.State) {
	w := pp.out()
	badge := st.Status.Badge()
	switch st.Status {
	case job.StatusError:
		badge = errColor.Sprint(badge)
	case job.StatusIdle:
		badge = dropColor.Sprint(badge)
	default:
		badge = gemColor.Sprint(badge)
	}
	line := badge
	if st.ShowProgress {
		line += " " + ProgressBar(st.Percent, 20) + fmt.Sprintf(" %3.0f%%", st.Percent)
	}
	if st.LastMessage != "" {
		line += " " + st.LastMessage
	}
	_, _ = fmt.Fprintln(w, line)
}

// ProgressBar renders percent as a bar of width cells.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// History prints the price history of an ad.
func (pp *PrettyPrint) History(id ad.ID, pts []ad.PricePoint) {
	w := pp.out()
	_, _ = titleColor.Fprintf(w, "Price history of %s\n", id)
	if len(pts) == 0 {
		_, _ = faint.Fprintln(w, "No change detected yet.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Price"), bold.Sprint("Change"))
	for i, p := range pts {
		change := ""
		if i > 0 {
			d := p.Price - pts[i-1].Price
			switch {
			case d < 0:
				change = dropColor.Sprintf("%.0f€", d)
			case d > 0:
				change = errColor.Sprintf("+%.0f€", d)
			}
		}
		tbl.AddRow(p.Date, strconv.FormatFloat(p.Price, 'f', -1, 64)+"€", change)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// JSON writes v as indented JSON.
func (pp *PrettyPrint) JSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}

// Compare prints ads side by side, one column per ad.
func (pp *PrettyPrint) Compare(ads []ad.Ad) {
	w := pp.out()
	if len(ads) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(w, " none\n\n")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 32
	tbl.Wrap = true

	row := func(label string, cell func(ad.Ad) string) {
		cells := []any{bold.Sprint(label)}
		for _, a := range ads {
			cells = append(cells, cell(a))
		}
		tbl.AddRow(cells...)
	}
	row("ID", func(a ad.Ad) string { return a.ID.String() })
	row("Title", func(a ad.Ad) string { return a.Title })
	row("Price", Price)
	row("Location", func(a ad.Ad) string { return orNA(a.Location) })
	row("Score", scoreCell)
	row("Date", dateCell)
	if pp.Verbose {
		row("Summary", func(a ad.Ad) string { return orNA(a.Summary()) })
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w, "")
}

// Analysis prints an AI verdict under a title, wrapped to the print width.
func (pp *PrettyPrint) Analysis(title, text string) {
	w := pp.out()
	_, _ = titleColor.Fprintln(w, title)
	_, _ = fmt.Fprintln(w, wordwrap.String(strings.TrimSpace(text), pp.width()))
}
