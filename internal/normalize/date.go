package normalize

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// FallbackLayouts are the date layouts tried when no inference-preferred
// layout matches. Order matters: for ambiguous numeric dates the first
// matching layout wins, so month-first comes before anything else (the
// convention of the exports this tool was written for).
var FallbackLayouts = []string{
	"01/02/2006",
	"2006-01-02",
	"02-Jan-2006",
	"2006/01/02",
	"01/02/06",
	"02-Jan-06",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// DefaultYearPivot resolves two-digit years: yy <= pivot is 20yy, otherwise
// 19yy. Two-digit years are inherently ambiguous, so the pivot is
// configuration, not business logic; 49 means "03" is 2003 and "87" is 1987.
const DefaultYearPivot = 49

// Date parses raw cell text into a calendar date. Layouts in preferred are
// tried before FallbackLayouts; preferred normally holds the layouts that won
// during schema inference sampling. Returns false when nothing matches. A
// false return is a warning for the caller, not a row rejection: amount
// correctness matters more than date presence.
func Date(raw string, preferred []string, pivot int) (*civil.Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	if pivot <= 0 {
		pivot = DefaultYearPivot
	}

	tried := make(map[string]bool, len(preferred)+len(FallbackLayouts))
	for _, layout := range append(append([]string{}, preferred...), FallbackLayouts...) {
		if layout == "" || tried[layout] {
			continue
		}
		tried[layout] = true

		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if twoDigitYear(layout) {
			t = applyPivot(t, pivot)
		}
		d := civil.DateOf(t)
		return &d, true
	}
	return nil, false
}

// DetectLayout reports which fallback layout a value matches, if any. Used by
// schema inference to tally the winning format of a date column.
func DetectLayout(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range FallbackLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return layout, true
		}
	}
	return "", false
}

// twoDigitYear reports whether the layout carries a two-digit year field.
func twoDigitYear(layout string) bool {
	return strings.Contains(layout, "06") && !strings.Contains(layout, "2006")
}

// applyPivot replaces Go's fixed 69-pivot for two-digit years with the
// configured one.
func applyPivot(t time.Time, pivot int) time.Time {
	yy := t.Year() % 100
	year := 1900 + yy
	if yy <= pivot {
		year = 2000 + yy
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
