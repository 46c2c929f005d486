package usecase

import (
	"strings"

	"mvdan.cc/xurls/v2"
)

var linkPattern = xurls.Strict()

// ExtractLinks scans free-form text for URLs and filters them against the
// trusted-origin allowlist. A URL is accepted iff it starts with one of the
// allowlist prefixes, matched literally and case-sensitively. Accepted URLs
// keep their first-appearance order and duplicates are preserved:
// deduplication happens downstream by content hash, not by URL.
//
// Rejected URLs are returned for logging only, never as an error.
func ExtractLinks(text string, allowlist []string) (accepted, rejected []string) {
	for _, link := range linkPattern.FindAllString(text, -1) {
		if isTrusted(link, allowlist) {
			accepted = append(accepted, link)
		} else {
			rejected = append(rejected, link)
		}
	}

	return accepted, rejected
}

func isTrusted(link string, allowlist []string) bool {
	for _, prefix := range allowlist {
		if strings.HasPrefix(link, prefix) {
			return true
		}
	}
	return false
}
