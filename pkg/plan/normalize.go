package plan

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var passthroughPriority = regexp.MustCompile(`^P[0-3]$`)

// NormalizePriority maps free-text priority to a canonical bucket.
// Anything already of the form P0..P3 passes through unchanged, so the
// function is idempotent on its own output. Unrecognized or empty text
// yields PriorityNone.
func NormalizePriority(text string) Priority {
	upper := strings.ToUpper(strings.TrimSpace(text))

	switch upper {
	case "P1", "HIGH", "CRITICAL":
		return PriorityP1
	case "P2", "MEDIUM", "NORMAL":
		return PriorityP2
	case "P3", "LOW":
		return PriorityP3
	}
	if passthroughPriority.MatchString(upper) {
		return Priority(upper)
	}
	return PriorityNone
}

var (
	effortHours = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours|hour|hrs|hr|h)\b`)
	// Minutes accept integers only. Fractional minutes fall through to
	// the day pattern or to zero, matching long-standing behavior.
	effortMinutes = regexp.MustCompile(`(\d+)\s*(?:minutes|minute|min|m)\b`)
	effortDays    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:days|day|d)\b`)
)

// ParseEffortToHours converts effort text like "4h", "30m" or "2d" to
// hours. A day counts as 8 hours. Unparseable input yields 0.
func ParseEffortToHours(text string) float64 {
	lower := strings.ToLower(text)

	if m := effortHours.FindStringSubmatch(lower); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v
	}
	if m := effortMinutes.FindStringSubmatch(lower); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v / 60
	}
	if m := effortDays.FindStringSubmatch(lower); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v * 8
	}
	return 0
}

var dirDatePrefix = regexp.MustCompile(`^(\d{6,8})(-\d{4})?-`)

// ParseDateFromDirectoryName extracts the optional date prefix from a
// plan directory name. A 6-digit token is YYMMDD (century assumed 2000),
// an 8-digit token is YYYYMMDD; an optional -HHMM group is accepted but
// discarded. Returns false for missing prefixes and for tokens that do
// not form a valid calendar date.
func ParseDateFromDirectoryName(name string) (time.Time, bool) {
	m := dirDatePrefix.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}

	token := m[1]
	var year, month, day int
	switch len(token) {
	case 6:
		year, _ = strconv.Atoi(token[0:2])
		year += 2000
		month, _ = strconv.Atoi(token[2:4])
		day, _ = strconv.Atoi(token[4:6])
	case 8:
		year, _ = strconv.Atoi(token[0:4])
		month, _ = strconv.Atoi(token[4:6])
		day, _ = strconv.Atoi(token[6:8])
	default:
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (month 13, Feb 31);
	// a round-trip mismatch means the token was not a real date.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
