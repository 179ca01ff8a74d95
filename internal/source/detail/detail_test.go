package detail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobsift-engine/internal/domain"
)

func TestBudgetTake(t *testing.T) {
	b := NewBudget(2)
	assert.True(t, b.Take())
	assert.True(t, b.Take())
	assert.False(t, b.Take())
	assert.False(t, b.Take())
	assert.Equal(t, 0, b.Remaining())
}

func TestBudgetConcurrent(t *testing.T) {
	b := NewBudget(10)
	var taken struct {
		sync.Mutex
		n int
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Take() {
				taken.Lock()
				taken.n++
				taken.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, taken.n)
	assert.Equal(t, 0, b.Remaining())
}

func TestNeeded(t *testing.T) {
	cases := []struct {
		name string
		c    domain.RawCandidate
		want bool
	}{
		{"junk title", domain.RawCandidate{Title: "Apply"}, true},
		{"no location or date", domain.RawCandidate{Title: "Data Engineer"}, true},
		{"has location", domain.RawCandidate{Title: "Data Engineer", Location: "Berlin"}, false},
		{"has date", domain.RawCandidate{Title: "Data Engineer", PostedAt: "2024-03-01"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Needed(tc.c))
		})
	}
}

const detailPage = `<html><body>
<h1>Senior Data Engineer</h1>
<div class="location">Berlin, Germany</div>
<script type="application/ld+json">
{"@type":"JobPosting","datePosted":"2024-03-05","title":"Senior Data Engineer"}
</script>
</body></html>`

func TestHydrateBackfills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(detailPage))
	}))
	defer srv.Close()

	h := NewHydrator(srv.Client(), nil, NewBudget(5), zap.NewNop())
	c := domain.RawCandidate{Title: "Learn more", Link: srv.URL + "/jobs/1"}

	require.True(t, h.Hydrate(context.Background(), &c))
	assert.Equal(t, "Senior Data Engineer", c.Title)
	assert.Equal(t, "Berlin, Germany", c.Location)
	assert.Equal(t, "2024-03-05", c.PostedAt)
}

func TestHydrateKeepsUsableTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(detailPage))
	}))
	defer srv.Close()

	h := NewHydrator(srv.Client(), nil, NewBudget(5), zap.NewNop())
	c := domain.RawCandidate{Title: "Platform Engineer", Link: srv.URL + "/jobs/1"}

	require.True(t, h.Hydrate(context.Background(), &c))
	assert.Equal(t, "Platform Engineer", c.Title)
	assert.Equal(t, "Berlin, Germany", c.Location)
}

func TestHydrateExhaustedBudget(t *testing.T) {
	h := NewHydrator(nil, nil, NewBudget(0), zap.NewNop())
	c := domain.RawCandidate{Title: "Apply", Link: "https://example.com/jobs/1"}
	assert.False(t, h.Hydrate(context.Background(), &c))
	assert.Equal(t, "Apply", c.Title)
}

func TestHydrateHTTPErrorLeavesCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := NewHydrator(srv.Client(), nil, NewBudget(5), zap.NewNop())
	c := domain.RawCandidate{Title: "Apply", Link: srv.URL + "/jobs/1"}

	assert.True(t, h.Hydrate(context.Background(), &c))
	assert.Equal(t, "Apply", c.Title)
	assert.Empty(t, c.Location)
}
