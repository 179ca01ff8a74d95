// Package reconcile merges recovered records into canonical postings: one
// row per canonical link, best-quality fields across duplicates,
// deterministic output order.
package reconcile

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"jobsift-engine/internal/domain"
)

// CanonicalLink is the dedup identity: query and fragment stripped, scheme
// and host lowercased. Unparsable links fall back to the trimmed input.
func CanonicalLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Reconcile groups records by canonical link, picks a representative per
// group, and recomputes days-since-posted against today. Records whose
// title failed recovery are dropped.
//
// Output order is a stable sort on (company, title), ascending, byte-wise
// (case-sensitive) collation.
func Reconcile(records []domain.RecoveredRecord, today time.Time) []domain.CanonicalPosting {
	type group struct {
		link string
		rep  domain.RecoveredRecord
	}

	index := map[string]int{}
	var groups []group

	for _, rec := range records {
		if !rec.TitleUsable {
			continue
		}
		link := CanonicalLink(rec.Link)
		if link == "" {
			continue
		}
		if i, ok := index[link]; ok {
			if better(rec, groups[i].rep) {
				groups[i].rep = rec
			}
			continue
		}
		index[link] = len(groups)
		groups = append(groups, group{link: link, rep: rec})
	}

	out := make([]domain.CanonicalPosting, 0, len(groups))
	for _, g := range groups {
		out = append(out, fromRepresentative(g.link, g.rep, today))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Company != out[j].Company {
			return out[i].Company < out[j].Company
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// better prefers a record with a posting date, then one with a location;
// remaining ties keep the first-seen record (challenger loses).
func better(challenger, incumbent domain.RecoveredRecord) bool {
	if (challenger.PostingDate != nil) != (incumbent.PostingDate != nil) {
		return challenger.PostingDate != nil
	}
	if (challenger.Location != "") != (incumbent.Location != "") {
		return challenger.Location != ""
	}
	return false
}

func fromRepresentative(link string, rec domain.RecoveredRecord, today time.Time) domain.CanonicalPosting {
	p := domain.CanonicalPosting{
		Company:     rec.Company,
		Title:       rec.Title,
		Link:        link,
		Location:    rec.Location,
		PostingDate: rec.PostingDate,
		Function:    rec.Function,
		Seniority:   rec.Seniority,
		Skills:      rec.Skills,
	}
	if d := DaysSince(rec.PostingDate, today); d != nil {
		p.DaysSincePosted = d
	}
	return p
}

// DaysSince computes whole days between a posting date and today; nil for
// absent or future dates so the derived value is never negative.
func DaysSince(posted *time.Time, today time.Time) *int {
	if posted == nil {
		return nil
	}
	days := int(dateOnly(today).Sub(dateOnly(*posted)).Hours() / 24)
	if days < 0 {
		return nil
	}
	return &days
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
