package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

var today = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func rec(company, title, link string) domain.RecoveredRecord {
	return domain.RecoveredRecord{
		Company:     company,
		Title:       title,
		TitleUsable: true,
		Link:        link,
		Function:    domain.FuncOther,
		Seniority:   domain.SeniorityUnknown,
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCanonicalLink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips query", "https://x.com/jobs/1?utm_source=feed&gh_jid=2", "https://x.com/jobs/1"},
		{"strips fragment", "https://x.com/jobs/1#apply", "https://x.com/jobs/1"},
		{"lowercases scheme and host", "HTTPS://Jobs.X.COM/Jobs/1", "https://jobs.x.com/Jobs/1"},
		{"path case preserved", "https://x.com/Jobs/ABC", "https://x.com/Jobs/ABC"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalLink(tt.in))
		})
	}
}

func TestReconcileDedupInvariant(t *testing.T) {
	in := []domain.RecoveredRecord{
		rec("Acme", "Engineer", "https://x.com/jobs/1?ref=a"),
		rec("Acme", "Engineer", "https://x.com/jobs/1?ref=b"),
		rec("Acme", "Engineer", "https://x.com/jobs/1#body"),
		rec("Acme", "Analyst", "https://x.com/jobs/2"),
	}
	out := Reconcile(in, today)

	require.Len(t, out, 2)
	seen := map[string]bool{}
	for _, p := range out {
		assert.False(t, seen[p.Link], "duplicate canonical link %s", p.Link)
		seen[p.Link] = true
	}
}

func TestReconcileRepresentativeSelection(t *testing.T) {
	t.Run("record with date wins", func(t *testing.T) {
		a := rec("Acme", "Engineer", "https://x.com/jobs/1")
		b := rec("Acme", "Engineer", "https://x.com/jobs/1")
		b.PostingDate = datePtr(2024, 3, 1)

		out := Reconcile([]domain.RecoveredRecord{a, b}, today)
		require.Len(t, out, 1)
		require.NotNil(t, out[0].PostingDate)
		assert.Equal(t, "2024-03-01", out[0].PostingDate.Format("2006-01-02"))
	})

	t.Run("location breaks date tie", func(t *testing.T) {
		a := rec("Acme", "Engineer", "https://x.com/jobs/1")
		b := rec("Acme", "Engineer", "https://x.com/jobs/1")
		b.Location = "Berlin"

		out := Reconcile([]domain.RecoveredRecord{a, b}, today)
		require.Len(t, out, 1)
		assert.Equal(t, "Berlin", out[0].Location)
	})

	t.Run("first seen wins remaining ties", func(t *testing.T) {
		a := rec("Acme", "First Title", "https://x.com/jobs/1")
		b := rec("Acme", "Second Title", "https://x.com/jobs/1")

		out := Reconcile([]domain.RecoveredRecord{a, b}, today)
		require.Len(t, out, 1)
		assert.Equal(t, "First Title", out[0].Title)
	})
}

func TestReconcileDaysSincePosted(t *testing.T) {
	a := rec("Acme", "Engineer", "https://x.com/jobs/1")
	a.PostingDate = datePtr(2024, 3, 5)

	out := Reconcile([]domain.RecoveredRecord{a}, today)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].DaysSincePosted)
	assert.Equal(t, 10, *out[0].DaysSincePosted)

	b := rec("Acme", "Analyst", "https://x.com/jobs/2")
	out = Reconcile([]domain.RecoveredRecord{b}, today)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].DaysSincePosted)
}

func TestReconcileDropsUnusableTitles(t *testing.T) {
	bad := rec("Acme", "Privacy Policy", "https://x.com/privacy")
	bad.TitleUsable = false
	good := rec("Acme", "Engineer", "https://x.com/jobs/1")

	out := Reconcile([]domain.RecoveredRecord{bad, good}, today)
	require.Len(t, out, 1)
	assert.Equal(t, "Engineer", out[0].Title)
}

func TestReconcileOrderingDeterministic(t *testing.T) {
	in := []domain.RecoveredRecord{
		rec("Zeta", "Analyst", "https://z.com/jobs/1"),
		rec("Acme", "zebra wrangler", "https://x.com/jobs/3"),
		rec("Acme", "Engineer", "https://x.com/jobs/1"),
		rec("Acme", "Analyst", "https://x.com/jobs/2"),
	}
	out := Reconcile(in, today)

	require.Len(t, out, 4)
	assert.Equal(t, "Analyst", out[0].Title)
	assert.Equal(t, "Engineer", out[1].Title)
	// byte-wise collation: uppercase sorts before lowercase
	assert.Equal(t, "zebra wrangler", out[2].Title)
	assert.Equal(t, "Zeta", out[3].Company)
}

func TestReconcileIdempotent(t *testing.T) {
	in := []domain.RecoveredRecord{
		rec("Acme", "Engineer", "https://x.com/jobs/1?a=1"),
		rec("Acme", "Engineer", "https://x.com/jobs/1?b=2"),
		rec("Beta", "Analyst", "https://b.com/jobs/9"),
	}
	first := Reconcile(in, today)
	second := Reconcile(in, today)
	assert.Equal(t, first, second)
}

// Two observations of one posting, only one carrying a date: the dated one
// defines the canonical row.
func TestReconcileMergesPartialObservations(t *testing.T) {
	fromListing := rec("Acme", "Engineer", "https://x.com/jobs/1?src=board")
	fromDetail := rec("Acme", "Engineer", "https://x.com/jobs/1")
	fromDetail.PostingDate = datePtr(2024, 3, 1)

	out := Reconcile([]domain.RecoveredRecord{fromListing, fromDetail}, today)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].PostingDate)
	assert.Equal(t, "2024-03-01", out[0].PostingDate.Format("2006-01-02"))
	assert.Equal(t, "https://x.com/jobs/1", out[0].Link)
}
