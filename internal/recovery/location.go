package recovery

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var locationLabels = []string{"location:", "locations:", "job location:"}

// Markers that all mean "this role is remote"; collapsed to one leading
// "Remote" token.
var remoteMarkers = []string{
	"remote", "fully remote", "remote-first", "100% remote", "remote ok",
	"work from home", "wfh", "anywhere", "distributed",
}

var titleCaser = cases.Title(language.English)

// ExtractLocationFromTitle pulls a location out of a raw title when the
// source gave no explicit field: trailing parenthetical first, else the last
// comma/dash-delimited segment when it is short and alphabetic.
func ExtractLocationFromTitle(title string) string {
	t := cleanText(title)
	if t == "" {
		return ""
	}

	if m := trailingParenRe.FindStringSubmatch(t); m != nil {
		if inner := cleanText(m[1]); inner != "" && looksLikeLocationSegment(inner) {
			return inner
		}
	}

	if idx, n := lastDashSeparator(t); idx >= 0 {
		if seg := strings.TrimSpace(t[idx+n:]); looksLikeLocationSegment(seg) {
			return seg
		}
	}
	if idx := strings.LastIndex(t, ","); idx >= 0 {
		if seg := strings.TrimSpace(t[idx+1:]); looksLikeLocationSegment(seg) {
			return seg
		}
	}
	return ""
}

// NormalizeLocation collapses remote markers to a single leading "Remote"
// token, splits on separators, dedupes case-insensitively, and title-cases
// locality tokens.
func NormalizeLocation(loc string) string {
	loc = cleanText(loc)
	if loc == "" {
		return ""
	}

	low := strings.ToLower(loc)
	for _, lab := range locationLabels {
		if strings.HasPrefix(low, lab) {
			loc = strings.TrimSpace(loc[len(lab):])
			low = strings.ToLower(loc)
			break
		}
	}

	for _, sep := range []string{";", "/", "|", "·", " or "} {
		loc = strings.ReplaceAll(loc, sep, ",")
	}

	seen := map[string]bool{}
	remote := false
	var out []string
	for _, part := range strings.Split(loc, ",") {
		part = cleanText(part)
		if part == "" {
			continue
		}
		if isRemoteMarker(part) {
			remote = true
			continue
		}
		key := strings.ToLower(part)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, casedToken(part))
	}

	if remote {
		out = append([]string{"Remote"}, out...)
	}
	return strings.Join(out, ", ")
}

func isRemoteMarker(token string) bool {
	low := strings.Trim(strings.ToLower(token), "() ")
	for _, m := range remoteMarkers {
		if low == m {
			return true
		}
	}
	return false
}

// casedToken title-cases a token only when it arrived all-lower. All-upper
// tokens are usually acronyms ("NYC", "EMEA") and mixed case is author
// intent; both are kept as-is.
func casedToken(tok string) string {
	if tok == strings.ToLower(tok) {
		return titleCaser.String(tok)
	}
	return tok
}
