// Package detail fetches a candidate's own page to recover a better title
// and a structured date/location when the listing-level anchor text was low
// quality. Follow-ups share one run-global budget to cap request volume.
package detail

import (
	"context"
	"net/http"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/recovery"
	"jobsift-engine/internal/source/util"
)

// Budget is the global cap on detail fetches for a whole run, shared across
// concurrent source workers.
type Budget struct {
	remaining atomic.Int64
}

func NewBudget(n int) *Budget {
	b := &Budget{}
	b.remaining.Store(int64(n))
	return b
}

// Take consumes one unit; false once the budget is spent.
func (b *Budget) Take() bool {
	return b.remaining.Add(-1) >= 0
}

func (b *Budget) Remaining() int {
	if n := b.remaining.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// Needed reports whether a candidate is worth a detail fetch: the listing
// gave us a junk title, or neither a location nor a date.
func Needed(c domain.RawCandidate) bool {
	if !recovery.UsableTitle(c.Title) {
		return true
	}
	return c.Location == "" && c.PostedAt == ""
}

var locationSelectors = []string{
	".location",
	".opening .location",
	".job__location",
	".posting-categories .location",
	"[data-testid='job-location']",
	"[data-testid='location']",
	"[itemprop='jobLocation']",
	"[data-qa='location']",
}

var datePostedRe = regexp.MustCompile(`"datePosted"\s*:\s*"([^"]+)"`)

type Hydrator struct {
	hc      *http.Client
	limiter *util.HostLimiter
	budget  *Budget
	log     *zap.Logger
}

func NewHydrator(hc *http.Client, limiter *util.HostLimiter, budget *Budget, log *zap.Logger) *Hydrator {
	if hc == nil {
		hc = util.NewHTTPClient(15 * time.Second)
	}
	return &Hydrator{hc: hc, limiter: limiter, budget: budget, log: log}
}

// Hydrate backfills c from its own page. Best-effort: any failure leaves the
// candidate as it was. Returns whether a fetch was attempted.
func (h *Hydrator) Hydrate(ctx context.Context, c *domain.RawCandidate) bool {
	if c.Link == "" || !h.budget.Take() {
		return false
	}

	if h.limiter != nil {
		if err := h.limiter.WaitURL(ctx, c.Link); err != nil {
			return true
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Link, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := h.hc.Do(req)
	if err != nil {
		h.log.Debug("detail fetch failed", zap.String("link", c.Link), zap.Error(err))
		return true
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return true
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return true
	}

	// The page's primary heading beats listing anchor text.
	if t := util.CleanText(doc.Find("h1").First().Text()); t != "" {
		if !recovery.UsableTitle(c.Title) {
			c.Title = t
		}
	}

	if c.Location == "" {
		for _, sel := range locationSelectors {
			if t := util.CleanText(doc.Find(sel).First().Text()); t != "" {
				c.Location = t
				break
			}
		}
	}

	if c.PostedAt == "" {
		c.PostedAt = findPostedAt(doc)
	}
	return true
}

func findPostedAt(doc *goquery.Document) string {
	// JSON-LD JobPosting blocks carry the authoritative date.
	var posted string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := datePostedRe.FindStringSubmatch(s.Text()); m != nil {
			posted = m[1]
			return false
		}
		return true
	})
	if posted != "" {
		return posted
	}
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return dt
	}
	return util.CleanText(doc.Find("time").First().Text())
}
