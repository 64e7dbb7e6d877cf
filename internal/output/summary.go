package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/blockzap/pkg/zap"
)

// Summary renders a short human-readable account of a cleaning pass.
// inBytes and outBytes are the encoded document sizes; zero values are
// omitted.
func Summary(report *zap.Report, inBytes, outBytes int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "blockzap (%s): %s blocks, %s changed, %s attributes removed",
		report.Mode,
		humanize.Comma(int64(report.Visited)),
		humanize.Comma(int64(report.Changed)),
		humanize.Comma(int64(report.Removed)))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(&sb, ", %s skipped", humanize.Comma(int64(len(report.Skipped))))
	}
	sb.WriteString("\n")

	if inBytes > 0 && outBytes > 0 {
		pct := float64(inBytes-outBytes) * 100 / float64(inBytes)
		fmt.Fprintf(&sb, "  size: %s -> %s (%.1f%% smaller)\n",
			humanize.Bytes(uint64(inBytes)), humanize.Bytes(uint64(outBytes)), pct)
	}

	if len(report.RemovedByCategory) > 0 {
		cats := make([]string, 0, len(report.RemovedByCategory))
		for c, n := range report.RemovedByCategory {
			cats = append(cats, fmt.Sprintf("%s %s", c.Title(), humanize.Comma(int64(n))))
		}
		sort.Strings(cats)
		fmt.Fprintf(&sb, "  by category: %s\n", strings.Join(cats, ", "))
	}

	for _, s := range report.Skipped {
		fmt.Fprintf(&sb, "  skipped %s\n", s.String())
	}
	return sb.String()
}

// InventorySummary renders an inventory as a category table.
func InventorySummary(inv *zap.Inventory) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s blocks", humanize.Comma(int64(inv.Blocks)))
	if inv.Malformed > 0 {
		fmt.Fprintf(&sb, " (%d malformed)", inv.Malformed)
	}
	sb.WriteString("\n")

	for _, c := range zap.Categories() {
		n := inv.ByCategory[c]
		if n == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %-20s %s\n", c.Title(), humanize.Comma(int64(n)))
	}
	if unknown := inv.UnknownKeys(); len(unknown) > 0 {
		fmt.Fprintf(&sb, "  unknown keys (kept): %s\n", strings.Join(unknown, ", "))
	}
	return sb.String()
}
