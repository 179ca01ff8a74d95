package recovery

import (
	"regexp"
	"strings"
)

// Boilerplate anchor-text lead-ins, stripped case-insensitively and in
// order. Longer variants first so the shorter ones don't truncate them.
var titlePrefixes = []string{
	"learn more about the",
	"learn more about",
	"learn more",
	"read more about",
	"read more",
	"apply for the",
	"apply for",
	"apply to",
	"apply now",
	"view job:",
	"view job",
	"job opening:",
	"job:",
	"english:",
	"english -",
	"german:",
	"deutsch:",
}

// Anchor texts that are navigation, not titles. Compared after cleaning,
// whole-string.
var nonJobPhrases = map[string]bool{
	"apply":           true,
	"apply now":       true,
	"apply here":      true,
	"view":            true,
	"view job":        true,
	"view all":        true,
	"view all jobs":   true,
	"see all jobs":    true,
	"see all openings": true,
	"all openings":    true,
	"open positions":  true,
	"learn more":      true,
	"read more":       true,
	"more info":       true,
	"details":         true,
	"share":           true,
	"create alert":    true,
	"create job alert": true,
	"sign in":         true,
	"sign up":         true,
	"log in":          true,
	"back to jobs":    true,
	"careers":         true,
	"jobs":            true,

	// site chrome that structured extractors can still pick up
	"privacy":              true,
	"privacy policy":       true,
	"privacy statement":    true,
	"terms":                true,
	"terms of service":     true,
	"terms of use":         true,
	"terms and conditions": true,
	"cookie policy":        true,
	"cookie settings":      true,
	"cookies":              true,
	"legal":                true,
	"imprint":              true,
	"impressum":            true,
	"contact":              true,
	"contact us":           true,
	"about":                true,
	"about us":             true,
	"blog":                 true,
	"press":                true,
	"faq":                  true,
	"support":              true,
	"sitemap":              true,
}

var (
	trailingParenRe = regexp.MustCompile(`\s*\(([^)]*)\)\s*$`)
	separatorCutset = " \t-–—|,:;·."
)

// Role words that keep a trailing dash segment from being mistaken for a
// location ("Engineer - Backend" stays whole).
var nonLocationSegmentWords = []string{
	"engineer", "developer", "analyst", "manager", "designer", "scientist",
	"architect", "lead", "intern", "specialist", "consultant", "backend",
	"frontend", "full stack", "fullstack",
}

// CleanTitle strips boilerplate and trailing location fragments from an
// observed title and reports whether the result is usable as a real title.
func CleanTitle(raw string) (string, bool) {
	t := cleanText(raw)

	for _, p := range titlePrefixes {
		if len(t) > len(p) && strings.EqualFold(t[:len(p)], p) {
			t = strings.TrimSpace(t[len(p):])
		}
	}

	t = trailingParenRe.ReplaceAllString(t, "")
	t = stripTrailingLocationSegment(t)
	t = strings.Trim(t, separatorCutset)
	t = cleanText(t)

	return t, UsableTitle(t)
}

// UsableTitle rejects titles that are too short or known navigation text.
func UsableTitle(s string) bool {
	t := strings.ToLower(strings.Trim(cleanText(s), separatorCutset))
	if len(t) <= 2 {
		return false
	}
	return !nonJobPhrases[t]
}

// stripTrailingLocationSegment removes a trailing " - City" style fragment:
// the last dash-delimited segment when it is short, alphabetic, and carries
// no role word.
func stripTrailingLocationSegment(t string) string {
	idx, n := lastDashSeparator(t)
	if idx < 0 {
		return t
	}
	seg := strings.TrimSpace(t[idx+n:])
	if seg == "" || !looksLikeLocationSegment(seg) {
		return t
	}
	return strings.TrimSpace(t[:idx])
}

// lastDashSeparator finds the rightmost dash separator and its byte length;
// the en/em-dash variants are multibyte, so callers must slice past the
// returned length, never a fixed width.
func lastDashSeparator(t string) (idx, size int) {
	idx = -1
	for _, sep := range []string{" - ", " – ", " — "} {
		if i := strings.LastIndex(t, sep); i > idx {
			idx, size = i, len(sep)
		}
	}
	return idx, size
}

func looksLikeLocationSegment(seg string) bool {
	words := strings.Fields(seg)
	if len(words) == 0 || len(words) > 4 {
		return false
	}
	hasLetter := false
	for _, r := range seg {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	low := strings.ToLower(seg)
	for _, w := range nonLocationSegmentWords {
		if strings.Contains(low, w) {
			return false
		}
	}
	return true
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
