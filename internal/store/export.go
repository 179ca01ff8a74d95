package store

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"jobsift-engine/internal/reconcile"
)

var csvHeader = []string{
	"Company", "Job Title", "Job Link", "Location",
	"Posting Date", "Days Since Posted", "Function", "Seniority", "Skills",
}

// WriteCSV writes the dataset in the report column set. Days Since Posted
// is recomputed against today so the export reflects report-generation
// time, not fetch time.
func WriteCSV(w io.Writer, postings []Posting, today time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range postings {
		days := ""
		if p.PostingDate != "" {
			if t, err := time.Parse("2006-01-02", p.PostingDate); err == nil {
				if d := reconcile.DaysSince(&t, today); d != nil {
					days = strconv.Itoa(*d)
				}
			}
		}
		rec := []string{
			p.Company,
			p.Title,
			p.Link,
			p.Location,
			p.PostingDate,
			days,
			p.Function,
			p.Seniority,
			strings.Join(p.Skills, "; "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
