package recovery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/reconcile"
	"jobsift-engine/internal/recovery"
)

// Footer links that a structured extractor scraped up must die in recovery,
// whatever adapter produced them.
func TestSiteChromeNeverReachesOutput(t *testing.T) {
	rec := recovery.New(nil)
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	chrome := []domain.RawCandidate{
		{Company: "Acme", Title: "Privacy Policy", Link: "/privacy", Source: "acme"},
		{Company: "Acme", Title: "Terms of Service", Link: "/terms", Source: "acme"},
		{Company: "Acme", Title: "Cookie Policy", Link: "/cookies", Source: "acme"},
	}
	real := domain.RawCandidate{
		Company: "Acme", Title: "Platform Engineer",
		Link: "https://acme.example.com/jobs/1", Source: "acme",
	}

	var records []domain.RecoveredRecord
	for _, c := range append(chrome, real) {
		records = append(records, rec.Recover(c))
	}

	for i := range chrome {
		assert.False(t, records[i].TitleUsable, records[i].Title)
	}

	out := reconcile.Reconcile(records, today)
	assert.Len(t, out, 1)
	assert.Equal(t, "Platform Engineer", out[0].Title)
}

func TestRecoverCompanyAlias(t *testing.T) {
	rec := recovery.New(map[string]string{"acme gmbh": "Acme"})
	r := rec.Recover(domain.RawCandidate{Company: "ACME GmbH", Title: "Data Engineer"})
	assert.Equal(t, "Acme", r.Company)
	assert.True(t, r.TitleUsable)
}
