package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the xxhash of page content, used for re-scrape
// change detection.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for display, keeping the end which is more
// informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
