// Package generic is the universal fallback adapter: scan every anchor in a
// document and keep the ones that look like job postings. Lowest confidence;
// must survive arbitrary markup without failing.
package generic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/util"
)

// Anchors whose href or text hits one of these are never job postings, even
// when they also match an accept rule.
var rejectFragments = []string{
	"privacy", "terms", "cookie", "legal", "imprint",
	"blog", "press", "contact", "about-us", "/about",
	"login", "log-in", "sign-in", "signin", "sign-up", "signup", "register",
	"create alert", "job alert", "faq", "sitemap",
	"facebook.com", "twitter.com", "x.com/", "instagram.com",
	"youtube.com", "linkedin.com/company",
}

// Rejected only as whole href path segments: bare substring matching would
// also veto "newsroom" pages and "Support Engineer" titles.
var rejectPathSegments = []string{"news", "support"}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico"}

// Link-path signatures that mark an anchor as job-like outright.
var jobLinkSignatures = []string{
	"/job/", "/jobs/", "/career/", "/careers/", "/position/", "/positions/",
	"/opening/", "/openings/", "/vacancy/", "/vacancies/", "/apply/",
	"greenhouse.io", "lever.co", "smartrecruiters.com", "workable.com",
	"myworkdayjobs.com", "recruitee.com", "ashbyhq.com", "bamboohr.com",
	"jobvite.com", "icims.com",
}

var roleKeywords = []string{
	"engineer", "developer", "analyst", "scientist", "architect",
	"manager", "designer", "consultant", "specialist", "administrator",
	"director", "lead", "intern", "researcher", "recruiter", "accountant",
	"representative", "coordinator", "writer", "marketer",
}

// Anchor text longer than this is a paragraph, not a title.
const maxTitleLen = 90

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

func (a *Adapter) Name() string { return "generic" }

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

	out := ScanDocument(doc, src)
	a.log.Debug("anchor scan",
		zap.String("source", src.Name),
		zap.Int("candidates", len(out)))
	return out, nil
}

// ScanDocument walks every anchor and scores it as job-like or not. Also
// used by the browser adapter on rendered DOM snapshots.
func ScanDocument(doc *goquery.Document, src source.Descriptor) []domain.RawCandidate {
	seen := map[string]bool{}
	var out []domain.RawCandidate

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		text := util.CleanText(sel.Text())

		if !ScoreAnchor(href, text) {
			return
		}

		abs := util.AbsURL(src.URL, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true

		out = append(out, domain.RawCandidate{
			Company: src.Company,
			Title:   text,
			Link:    abs,
			Source:  src.Name,
		})
	})
	return out
}

// ScoreAnchor applies the layered rule: reject list first, then accept on a
// job-link signature, then accept on role keyword + title-size text.
func ScoreAnchor(href, text string) bool {
	lowHref := strings.ToLower(strings.TrimSpace(href))
	lowText := strings.ToLower(text)

	if lowHref == "" || lowHref == "#" {
		return false
	}
	if strings.HasPrefix(lowHref, "mailto:") ||
		strings.HasPrefix(lowHref, "tel:") ||
		strings.HasPrefix(lowHref, "javascript:") {
		return false
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lowHref, ext) {
			return false
		}
	}
	for _, bad := range rejectFragments {
		if strings.Contains(lowHref, bad) || strings.Contains(lowText, bad) {
			return false
		}
	}
	for _, seg := range rejectPathSegments {
		if strings.Contains(lowHref, "/"+seg+"/") || strings.HasSuffix(lowHref, "/"+seg) {
			return false
		}
	}

	for _, sig := range jobLinkSignatures {
		if strings.Contains(lowHref, sig) {
			return true
		}
	}

	if len(text) == 0 || len(text) > maxTitleLen {
		return false
	}
	for _, kw := range roleKeywords {
		if strings.Contains(lowText, kw) {
			return true
		}
	}
	return false
}
