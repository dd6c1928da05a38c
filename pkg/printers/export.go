package printers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
)

// ExportSize is how many ads the text export lists.
const ExportSize = 10

// Export renders the plain-text "top deals" report for sharing. ads should
// already be ranked best first; only the first ExportSize scored ads are used.
func Export(watch string, ads []ad.Ad, includeAI bool, now time.Time) string {
	if watch == "" {
		watch = "Watch"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 TOP %d DEALS - %s\n", ExportSize, watch)
	fmt.Fprintf(&b, "Generated on %s\n", now.Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("=", 42) + "\n\n")

	n := 0
	for _, a := range ads {
		if !a.Scored() {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, strings.ToUpper(a.Title))
		fmt.Fprintf(&b, "   💰 Price: %s\n", Price(a))
		fmt.Fprintf(&b, "   📍 Location: %s\n", orNA(a.Location))
		if includeAI && a.Score() != 0 {
			fmt.Fprintf(&b, "   ⭐ AI score: %s/10\n", strconv.FormatFloat(a.Score(), 'f', -1, 64))
			fmt.Fprintf(&b, "   🤖 Summary: %s\n", orNA(a.Summary()))
		}
		if a.URL != "" {
			fmt.Fprintf(&b, "   🔗 %s\n", a.URL)
		}
		b.WriteString("\n")
		if n == ExportSize {
			break
		}
	}
	if n == 0 {
		b.WriteString("No scored ads yet.\n")
	}
	return b.String()
}
