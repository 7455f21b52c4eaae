// File: internal/usecase/sources.go
package usecase

import (
	"regexp"
	"strings"
)

var (
	// Bare absolute URLs. Trailing punctuation is trimmed afterwards
	// instead of being excluded by the pattern.
	urlPattern = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]()]+")

	// Markdown-style [text](url) links.
	markdownLinkPattern = regexp.MustCompile(`\[[^\]]+\]\((https?://[^)]+)\)`)
)

// ExtractSources pulls source URLs out of one text fragment: bare and
// markdown-linked URLs merged, trailing punctuation stripped, deduplicated
// preserving first-seen order. Candidates shorter than 11 characters or
// without a scheme prefix are discarded.
func ExtractSources(output string) []string {
	urls := urlPattern.FindAllString(output, -1)
	for _, m := range markdownLinkPattern.FindAllStringSubmatch(output, -1) {
		urls = append(urls, m[1])
	}

	seen := make(map[string]struct{})
	sources := []string{}
	for _, u := range urls {
		u = strings.TrimRight(u, ".,;:!?)")
		if _, dup := seen[u]; dup {
			continue
		}
		if len(u) <= 10 {
			continue
		}
		if !strings.Contains(u, "http://") && !strings.Contains(u, "https://") {
			continue
		}
		seen[u] = struct{}{}
		sources = append(sources, u)
	}
	return sources
}

// CollectSources runs extraction over several output fragments and merges
// the results, again deduplicating in first-seen order.
func CollectSources(outputs []string) []string {
	seen := make(map[string]struct{})
	merged := []string{}
	for _, out := range outputs {
		for _, u := range ExtractSources(out) {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			merged = append(merged, u)
		}
	}
	return merged
}
