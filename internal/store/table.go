package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"jobsift-engine/internal/domain"
)

// Posting is one persisted dataset row. Skills travel as a JSON array in
// one TEXT column so the schema stays a single flat table.
type Posting struct {
	Company     string
	Title       string
	Link        string // canonical; PRIMARY KEY
	Location    string
	PostingDate string // ISO date or ""
	Function    string
	Seniority   string
	Skills      []string
	FirstSeen   string
	LastSeen    string
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS postings (
  link TEXT PRIMARY KEY,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  posting_date TEXT NOT NULL DEFAULT '',
  function TEXT NOT NULL DEFAULT 'Other',
  seniority TEXT NOT NULL DEFAULT 'Unknown',
  skills TEXT NOT NULL DEFAULT '[]',
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_postings_company
ON postings(company, title);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// ListPostings returns every row ordered by (company, title) so exports
// share the reconciler's collation.
func ListPostings(ctx context.Context, db *sql.DB) ([]Posting, error) {
	rows, err := db.QueryContext(ctx, `
SELECT link, company, title, location, posting_date, function, seniority, skills, first_seen, last_seen
FROM postings
ORDER BY company ASC, title ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Posting
	for rows.Next() {
		var p Posting
		var skills string
		if err := rows.Scan(&p.Link, &p.Company, &p.Title, &p.Location, &p.PostingDate,
			&p.Function, &p.Seniority, &skills, &p.FirstSeen, &p.LastSeen); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(skills), &p.Skills)
		out = append(out, p)
	}
	return out, rows.Err()
}

// FromCanonical converts a reconciled posting into its storage row.
func FromCanonical(p domain.CanonicalPosting, now time.Time) Posting {
	date := ""
	if p.PostingDate != nil {
		date = p.PostingDate.Format("2006-01-02")
	}
	skills := append([]string(nil), p.Skills...)
	sort.Strings(skills)
	ts := now.UTC().Format(time.RFC3339)
	return Posting{
		Company:     p.Company,
		Title:       p.Title,
		Link:        p.Link,
		Location:    p.Location,
		PostingDate: date,
		Function:    string(p.Function),
		Seniority:   string(p.Seniority),
		Skills:      skills,
		FirstSeen:   ts,
		LastSeen:    ts,
	}
}
