package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/docflow/core"
)

const pageBreakPlaceholder = "<!-- page break -->"

var pageMarkerPattern = regexp.MustCompile(`\{(\d+)\}`)

// ReplacePageBreaks rewrites page-break placeholders into numbered {N}
// markers, starting from startPage. The marker carries the number of the
// page that ends at the break, so content before {1} is page 1 and content
// between {k} and {k+1} is page k+1.
func ReplacePageBreaks(markdown string, startPage int) string {
	if startPage < 1 {
		startPage = 1
	}

	var b strings.Builder
	current := startPage
	rest := markdown
	for {
		idx := strings.Index(rest, pageBreakPlaceholder)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:idx])
		fmt.Fprintf(&b, "{%d}", current)
		current++
		rest = rest[idx+len(pageBreakPlaceholder):]
	}
}

// SplitByPages splits markdown containing {N} page markers into ordered
// pages. Pages whose content is empty after trimming are skipped; page
// numbers follow marker positions, not the count of non-empty pages.
func SplitByPages(markdown string) []core.Page {
	parts := splitKeepingMarkers(markdown)

	var pages []core.Page
	// Even-indexed entries are page content; odd-indexed are marker digits.
	for i, part := range parts {
		if i%2 != 0 {
			continue
		}
		content := strings.TrimSpace(part)
		if content == "" {
			continue
		}
		pages = append(pages, core.Page{
			Number:   i/2 + 1,
			Markdown: content,
		})
	}
	return pages
}

// splitKeepingMarkers splits on {N} markers, interleaving content and the
// captured digits the way regexp split-with-groups would.
func splitKeepingMarkers(markdown string) []string {
	locs := pageMarkerPattern.FindAllStringSubmatchIndex(markdown, -1)
	if len(locs) == 0 {
		return []string{markdown}
	}

	parts := make([]string, 0, len(locs)*2+1)
	last := 0
	for _, loc := range locs {
		parts = append(parts, markdown[last:loc[0]], markdown[loc[2]:loc[3]])
		last = loc[1]
	}
	parts = append(parts, markdown[last:])
	return parts
}
