package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"jobsift-engine/internal/domain"
)

// UpsertPosting is an idempotent upsert keyed on the canonical link: insert
// when new, otherwise refresh every recomputed field and bump last_seen
// while keeping first_seen. Reports whether the row was newly inserted.
func UpsertPosting(ctx context.Context, db *sql.DB, p Posting) (bool, error) {
	if p.Link == "" {
		return false, errors.New("missing canonical link")
	}

	skillsB, _ := json.Marshal(p.Skills)

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO postings(link, company, title, location, posting_date, function, seniority, skills, first_seen, last_seen)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		p.Link, p.Company, p.Title, p.Location, p.PostingDate,
		p.Function, p.Seniority, string(skillsB), p.FirstSeen, p.LastSeen,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}

	_, err = db.ExecContext(ctx, `
UPDATE postings
SET company = ?, title = ?, location = ?, posting_date = ?,
    function = ?, seniority = ?, skills = ?, last_seen = ?
WHERE link = ?;`,
		p.Company, p.Title, p.Location, p.PostingDate,
		p.Function, p.Seniority, string(skillsB), p.LastSeen, p.Link,
	)
	return false, err
}

// UpsertAll persists a reconciled batch; returns how many rows were new.
func UpsertAll(ctx context.Context, db *sql.DB, postings []domain.CanonicalPosting, now time.Time) (added int, err error) {
	for _, cp := range postings {
		ok, uerr := UpsertPosting(ctx, db, FromCanonical(cp, now))
		if uerr != nil {
			return added, uerr
		}
		if ok {
			added++
		}
	}
	return added, nil
}
