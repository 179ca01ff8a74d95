// Package htmlpage extracts job cards from server-rendered career pages
// using per-vendor selector sets. Vendor markup drifts; a set that no longer
// matches yields zero candidates rather than an error.
package htmlpage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/util"
)

// SelectorSet describes where a vendor's listing page keeps its job cards.
// The differences between vendors are data, not code.
type SelectorSet struct {
	Card     string
	Title    string
	Location string
}

var vendorSelectors = map[source.Vendor]SelectorSet{
	source.VendorWorkable: {
		Card:     "li[data-ui='job']",
		Title:    "[data-ui='job-title']",
		Location: "[data-ui='job-location']",
	},
	source.VendorRecruitee: {
		Card:     ".job, [class*='job-item']",
		Title:    ".job-title, h3",
		Location: ".job-location, .location",
	},
	source.VendorGreenhouse: {
		Card:     ".opening",
		Title:    "a",
		Location: ".location, .location--small",
	},
}

// Tried in order when the vendor is unknown or its set matched nothing.
var fallbackSelectors = []SelectorSet{
	{Card: "[class*='job-card']", Title: "h2, h3, a", Location: "[class*='location']"},
	{Card: "li.job, div.job, .posting", Title: "a, h3", Location: ".location, .posting-categories"},
}

type Adapter struct {
	hc      *http.Client
	limiter *util.HostLimiter
	log     *zap.Logger
}

func New(hc *http.Client, limiter *util.HostLimiter, log *zap.Logger) *Adapter {
	if hc == nil {
		hc = util.NewHTTPClient(20 * time.Second)
	}
	return &Adapter{hc: hc, limiter: limiter, log: log}
}

func (a *Adapter) Name() string { return "htmlpage" }

func (a *Adapter) Fetch(ctx context.Context, src source.Descriptor) ([]domain.RawCandidate, error) {
	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, src.URL); err != nil {
			return nil, &source.FetchError{Source: src.Name, Reason: source.ReasonTimeout, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, &source.FetchError{Source: src.Name, Reason: source.ReasonParse, Err: err}
	}
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := a.hc.Do(req)
	if err != nil {
		reason := source.ReasonHTTPStatus
		if util.IsTimeout(err) {
			reason = source.ReasonTimeout
		}
		return nil, &source.FetchError{Source: src.Name, Reason: reason, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, &source.FetchError{
			Source: src.Name,
			Reason: source.ReasonHTTPStatus,
			Err:    fmt.Errorf("%s: status %d", src.URL, res.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, &source.FetchError{Source: src.Name, Reason: source.ReasonParse, Err: err}
	}

	out := Extract(doc, src)
	a.log.Debug("card scan",
		zap.String("source", src.Name),
		zap.String("vendor", string(src.Vendor)),
		zap.Int("candidates", len(out)))
	return out, nil
}

// Extract tries the vendor's selector set, then the fallback sets, stopping
// at the first set that matches any card.
func Extract(doc *goquery.Document, src source.Descriptor) []domain.RawCandidate {
	sets := fallbackSelectors
	if vs, ok := vendorSelectors[src.Vendor]; ok {
		sets = append([]SelectorSet{vs}, fallbackSelectors...)
	}

	for _, set := range sets {
		if out := extractWith(doc, src, set); len(out) > 0 {
			return out
		}
	}
	return nil
}

func extractWith(doc *goquery.Document, src source.Descriptor, set SelectorSet) []domain.RawCandidate {
	seen := map[string]bool{}
	var out []domain.RawCandidate

	doc.Find(set.Card).Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find("a[href]").First().Attr("href")
		if !ok {
			// the card itself may be the anchor
			href, ok = card.Attr("href")
			if !ok {
				return
			}
		}
		abs := util.AbsURL(src.URL, href)
		if abs == "" || seen[abs] {
			return
		}

		title := util.CleanText(card.Find(set.Title).First().Text())
		if title == "" {
			title = util.CleanText(card.Find("a").First().Text())
		}
		if title == "" {
			return
		}
		seen[abs] = true

		out = append(out, domain.RawCandidate{
			Company:  src.Company,
			Title:    title,
			Link:     abs,
			Location: util.CleanText(card.Find(set.Location).First().Text()),
			Source:   src.Name,
		})
	})
	return out
}
