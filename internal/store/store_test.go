package store

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func canonical(link, company, title string) domain.CanonicalPosting {
	return domain.CanonicalPosting{
		Company:   company,
		Title:     title,
		Link:      link,
		Function:  domain.FuncEngineering,
		Seniority: domain.SenioritySeniorLead,
		Skills:    []string{"go", "kubernetes"},
	}
}

func TestUpsertIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	batch := []domain.CanonicalPosting{
		canonical("https://x.com/jobs/1", "Acme", "Engineer"),
		canonical("https://x.com/jobs/2", "Acme", "Analyst"),
	}

	added, err := UpsertAll(ctx, db.Pool, batch, now)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// Re-ingesting the same postings updates rather than duplicates.
	added, err = UpsertAll(ctx, db.Pool, batch, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	rows, err := ListPostings(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// first_seen survives the re-ingest, last_seen moves
	assert.Equal(t, "2024-03-15T12:00:00Z", rows[0].FirstSeen)
	assert.Equal(t, "2024-03-16T12:00:00Z", rows[0].LastSeen)
	assert.Equal(t, []string{"go", "kubernetes"}, rows[0].Skills)
}

func TestUpsertRefreshesFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	p := canonical("https://x.com/jobs/1", "Acme", "Engineer")
	_, err := UpsertAll(ctx, db.Pool, []domain.CanonicalPosting{p}, now)
	require.NoError(t, err)

	p.Location = "Remote, Berlin"
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p.PostingDate = &d
	_, err = UpsertAll(ctx, db.Pool, []domain.CanonicalPosting{p}, now)
	require.NoError(t, err)

	rows, err := ListPostings(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Remote, Berlin", rows[0].Location)
	assert.Equal(t, "2024-03-01", rows[0].PostingDate)
}

func TestListPostingsOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	batch := []domain.CanonicalPosting{
		canonical("https://z.com/1", "Zeta", "Analyst"),
		canonical("https://x.com/2", "Acme", "Engineer"),
		canonical("https://x.com/1", "Acme", "Analyst"),
	}
	_, err := UpsertAll(ctx, db.Pool, batch, time.Now())
	require.NoError(t, err)

	rows, err := ListPostings(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Analyst", rows[0].Title)
	assert.Equal(t, "Engineer", rows[1].Title)
	assert.Equal(t, "Zeta", rows[2].Company)
}

func TestWriteCSV(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rows := []Posting{
		{
			Company: "Acme", Title: "Engineer", Link: "https://x.com/jobs/1",
			Location: "Remote, Berlin", PostingDate: "2024-03-05",
			Function: "Engineering", Seniority: "Senior/Lead",
			Skills: []string{"go", "sql"},
		},
		{
			Company: "Beta", Title: "Analyst", Link: "https://b.com/jobs/2",
			Function: "Data & Analytics", Seniority: "Unknown",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, today))

	out := buf.String()
	assert.Contains(t, out, "Company,Job Title,Job Link,Location,Posting Date,Days Since Posted,Function,Seniority,Skills")
	assert.Contains(t, out, `Acme,Engineer,https://x.com/jobs/1,"Remote, Berlin",2024-03-05,10,Engineering,Senior/Lead,go; sql`)
	assert.Contains(t, out, "Beta,Analyst,https://b.com/jobs/2,,,,Data & Analytics,Unknown,")
}

func TestOpenLocksDataDir(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	require.NoError(t, err)
	defer db.Close()

	_, err = Open(dir)
	assert.Error(t, err)
}
