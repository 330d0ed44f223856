package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/ui/style"
)

// renderBundle writes the human readable form of a bundle.
func renderBundle(w io.Writer, b *domain.Bundle) {
	_, _ = fmt.Fprintf(w, "%s %s  %s  %s\n",
		style.Header.Render(style.Bolt),
		style.Header.Render(b.PluginID),
		b.Jurisdiction,
		style.Muted.Render(fmt.Sprintf("%s@%s %s", b.TableVersion.Code, b.TableVersion.Edition, b.TableVersion.Fingerprint)),
	)

	_, _ = fmt.Fprintln(w, style.Header.Render("Results"))
	for _, name := range slices.Sorted(maps.Keys(b.Results)) {
		_, _ = fmt.Fprintf(w, "  %-24s %12s %s\n", name, formatNumber(b.Results[name]), b.Units[name])
	}

	if len(b.Steps) > 0 {
		_, _ = fmt.Fprintln(w, style.Header.Render("Steps"))
		for _, s := range b.Steps {
			_, _ = fmt.Fprintf(w, "  %-24s %12s %-3s %s\n", s.RuleID, formatNumber(s.Output), s.Unit, style.Muted.Render(s.Reference))
			_, _ = fmt.Fprintf(w, "  %-24s %s\n", "", style.Muted.Render(s.Formula))
		}
	}

	if len(b.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, style.Header.Render("Warnings"))
		for _, warn := range b.Warnings {
			_, _ = fmt.Fprintf(w, "  %s %s %s\n", style.Notice.Render(style.Warning), warn.Code, warn.Message)
		}
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
