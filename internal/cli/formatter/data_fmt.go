package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskflow/internal/storage"
)

// FormatUsage renders storage usage against the primary quota. A zero
// quota means the primary store is unbounded.
func FormatUsage(u storage.Usage, quota int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Primary:"), StyleFg.Render(Bytes(u.Primary)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Backup: "), StyleFg.Render(Bytes(u.Backup)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Total:  "), Bold(Bytes(u.Total())))
	if quota > 0 {
		// Fuller is worse, so the bar runs on the remaining headroom.
		free := 1 - float64(u.Primary)/float64(quota)
		fmt.Fprintf(&b, "\n%s %s %s\n", Dim("Quota headroom:"), RenderProgress(free, 20), Dim("of "+Bytes(quota)))
	}
	return RenderBox("Storage", b.String())
}

// Bytes renders n with a binary unit suffix.
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
