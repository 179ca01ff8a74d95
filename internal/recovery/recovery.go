// Package recovery backfills missing title/location/date/function/seniority/
// skills from whatever raw text a source produced. Recovery is pure and
// total: the worst outcome is an empty or Unknown field, never an error.
package recovery

import (
	"strings"
	"time"

	"jobsift-engine/internal/domain"
)

// Built-in company spelling variants; configuration may extend the table.
var defaultCompanyAliases = map[string]string{
	"atacama": "Ataccama",
}

type Recoverer struct {
	aliases map[string]string // lowercased variant -> canonical
	now     func() time.Time
}

func New(aliases map[string]string) *Recoverer {
	merged := make(map[string]string, len(defaultCompanyAliases)+len(aliases))
	for k, v := range defaultCompanyAliases {
		merged[strings.ToLower(k)] = v
	}
	for k, v := range aliases {
		merged[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return &Recoverer{aliases: merged, now: time.Now}
}

// WithNow fixes the clock; used by tests and by callers that want one
// consistent "today" across a run.
func (r *Recoverer) WithNow(now func() time.Time) *Recoverer {
	r.now = now
	return r
}

// Recover derives every canonical field from a raw candidate.
func (r *Recoverer) Recover(c domain.RawCandidate) domain.RecoveredRecord {
	// Location extraction reads the raw title before cleanup strips the
	// fragment it needs.
	loc := c.Location
	if strings.TrimSpace(loc) == "" {
		loc = ExtractLocationFromTitle(c.Title)
	}
	loc = NormalizeLocation(loc)

	title, usable := CleanTitle(c.Title)

	return domain.RecoveredRecord{
		Company:     r.CanonicalCompany(c.Company),
		Title:       title,
		TitleUsable: usable,
		Link:        strings.TrimSpace(c.Link),
		Location:    loc,
		PostingDate: ParsePostingDate(c.PostedAt, r.now()),
		Function:    ClassifyFunction(title, c.Description),
		Seniority:   ClassifySeniority(title, loc, c.Description),
		Skills:      ExtractSkills(title, c.Description),
		Source:      c.Source,
	}
}

// CanonicalCompany collapses known name variants to one spelling.
func (r *Recoverer) CanonicalCompany(name string) string {
	name = cleanText(name)
	if canon, ok := r.aliases[strings.ToLower(name)]; ok {
		return canon
	}
	return name
}
