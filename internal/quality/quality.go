// Package quality gates the persisted dataset: a run whose output is mostly
// holes is worse than a failed run, because it silently degrades the
// downstream report.
package quality

import (
	"fmt"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/store"
)

type Report struct {
	Rows                 int
	EmptyLocationFrac    float64
	EmptyDateFrac        float64
	UnknownSeniorityFrac float64
	Failures             []string
	Warnings             []string
}

// Passed reports whether the dataset clears every hard gate.
func (r Report) Passed() bool { return len(r.Failures) == 0 }

// Check measures field coverage against the configured thresholds. Empty
// location and empty date breaches are hard failures; unknown seniority
// only warns.
func Check(rows []store.Posting, cfg config.Config) Report {
	rep := Report{Rows: len(rows)}
	if len(rows) == 0 {
		rep.Failures = append(rep.Failures, "dataset is empty")
		return rep
	}

	var noLoc, noDate, unknownSen int
	for _, p := range rows {
		if p.Location == "" {
			noLoc++
		}
		if p.PostingDate == "" {
			noDate++
		}
		if p.Seniority == string(domain.SeniorityUnknown) || p.Seniority == "" {
			unknownSen++
		}
	}

	n := float64(len(rows))
	rep.EmptyLocationFrac = float64(noLoc) / n
	rep.EmptyDateFrac = float64(noDate) / n
	rep.UnknownSeniorityFrac = float64(unknownSen) / n

	if rep.EmptyLocationFrac > cfg.Quality.MaxEmptyLocationFrac {
		rep.Failures = append(rep.Failures, fmt.Sprintf(
			"empty location fraction %.2f exceeds %.2f",
			rep.EmptyLocationFrac, cfg.Quality.MaxEmptyLocationFrac))
	}
	if rep.EmptyDateFrac > cfg.Quality.MaxEmptyDateFrac {
		rep.Failures = append(rep.Failures, fmt.Sprintf(
			"empty posting date fraction %.2f exceeds %.2f",
			rep.EmptyDateFrac, cfg.Quality.MaxEmptyDateFrac))
	}
	if rep.UnknownSeniorityFrac > cfg.Quality.WarnUnknownSeniorityFrac {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"unknown seniority fraction %.2f exceeds %.2f",
			rep.UnknownSeniorityFrac, cfg.Quality.WarnUnknownSeniorityFrac))
	}
	return rep
}
