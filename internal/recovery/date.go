package recovery

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parse layers, tried top to bottom; first hit wins.
var (
	isoDateRe  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	monthDayRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})`)
	dayMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{4})`)
	slashedRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	daysAgoRe  = regexp.MustCompile(`(?i)\b(\d+)\+?\s*days?\s+ago`)
	recentRe   = regexp.MustCompile(`(?i)\b(today|just posted|\d+\s*(?:hour|minute)s?\s+ago)\b`)
)

var monthNum = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParsePostingDate turns a free-form posted-at string into a calendar date.
// Dates in the future are treated as unparsed. Relative forms resolve
// against now.
func ParsePostingDate(s string, now time.Time) *time.Time {
	s = cleanText(s)
	if s == "" {
		return nil
	}
	today := dateOnly(now)

	if m := isoDateRe.FindString(s); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return clampFuture(t, today)
		}
	}

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := makeDate(year, m[1], day); ok {
			return clampFuture(t, today)
		}
	}
	if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if t, ok := makeDate(year, m[2], day); ok {
			return clampFuture(t, today)
		}
	}

	// dd/mm/yyyy; ambiguous with mm/dd, resolved by whichever reading is a
	// real date, day-first preferred.
	if m := slashedRe.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if b >= 1 && b <= 12 && a >= 1 && a <= 31 {
			t := time.Date(year, time.Month(b), a, 0, 0, 0, 0, time.UTC)
			return clampFuture(t, today)
		}
		if a >= 1 && a <= 12 && b >= 1 && b <= 31 {
			t := time.Date(year, time.Month(a), b, 0, 0, 0, 0, time.UTC)
			return clampFuture(t, today)
		}
	}

	if m := daysAgoRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 0 {
			t := today.AddDate(0, 0, -n)
			return &t
		}
	}
	if strings.Contains(strings.ToLower(s), "yesterday") {
		t := today.AddDate(0, 0, -1)
		return &t
	}
	if recentRe.MatchString(s) {
		t := today
		return &t
	}

	return nil
}

func makeDate(year int, month string, day int) (time.Time, bool) {
	m, ok := monthNum[strings.ToLower(month[:3])]
	if !ok || day < 1 || day > 31 || year < 1970 {
		return time.Time{}, false
	}
	return time.Date(year, m, day, 0, 0, 0, 0, time.UTC), true
}

func clampFuture(t, today time.Time) *time.Time {
	t = dateOnly(t)
	if t.After(today) {
		return nil
	}
	return &t
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
