// Package visit classifies inbound requests as human or automated traffic
// based on the declared User-Agent string.
package visit

import "strings"

// Verdict is the result of classifying a visitor.
type Verdict int

const (
	// Human is the default verdict for unrecognized or absent user agents.
	Human Verdict = iota
	// Bot marks crawlers, spiders, and link-preview fetchers.
	Bot
)

// botMarkers are substrings matched case-insensitively against the
// User-Agent. Any hit means Bot; the default is Human, so unknown bots are
// undercounted rather than humans being dropped.
var botMarkers = []string{
	"bot",
	"crawl",
	"spider",
	"facebook",
	"external",
	"chrome-lighthouse",
	"slack",
	"twitter",
	"linkedin",
	"discord",
	"thunder",
}

// Classify inspects a User-Agent string and returns a verdict. It is a pure
// function: no I/O, no state, same input always yields the same verdict.
func Classify(userAgent string) Verdict {
	if userAgent == "" {
		return Human
	}

	lowered := strings.ToLower(userAgent)

	for _, marker := range botMarkers {
		if strings.Contains(lowered, marker) {
			return Bot
		}
	}

	return Human
}
