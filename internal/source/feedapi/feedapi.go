// Package feedapi talks to documented ATS JSON endpoints. It is the highest
// confidence adapter: fields map straight onto candidates, no heuristics.
package feedapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/util"
)

// Endpoint templates per vendor; package vars so tests can point them at a
// local server.
var (
	greenhouseAPI      = "https://boards-api.greenhouse.io/v1/boards/%s/jobs?content=true"
	leverAPI           = "https://api.lever.co/v0/postings/%s?mode=json"
	smartRecruitersAPI = "https://api.smartrecruiters.com/v1/companies/%s/postings?limit=100"
)

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

func (a *Adapter) Name() string { return "feedapi" }

func (a *Adapter) Fetch(ctx context.Context, src source.Descriptor) ([]domain.RawCandidate, error) {
	switch src.Vendor {
	case source.VendorGreenhouse:
		return a.fetchGreenhouse(ctx, src)
	case source.VendorLever:
		return a.fetchLever(ctx, src)
	case source.VendorSmartRecruiters:
		return a.fetchSmartRecruiters(ctx, src)
	default:
		return nil, &source.FetchError{
			Source: src.Name,
			Reason: source.ReasonParse,
			Err:    fmt.Errorf("no feed mapping for vendor %q", src.Vendor),
		}
	}
}

// BoardSlug pulls the ATS board identifier out of a career-site URL: the
// last non-empty path segment ("jobs.lever.co/acme" -> "acme").
func BoardSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(segs[i]); s != "" {
			return s
		}
	}
	return ""
}

func (a *Adapter) getJSON(ctx context.Context, srcName, apiURL string, v any) error {
	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, apiURL); err != nil {
			return &source.FetchError{Source: srcName, Reason: source.ReasonTimeout, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return &source.FetchError{Source: srcName, Reason: source.ReasonParse, Err: err}
	}
	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := a.hc.Do(req)
	if err != nil {
		reason := source.ReasonHTTPStatus
		if util.IsTimeout(err) {
			reason = source.ReasonTimeout
		}
		return &source.FetchError{Source: srcName, Reason: reason, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return &source.FetchError{
			Source: srcName,
			Reason: source.ReasonHTTPStatus,
			Err:    fmt.Errorf("%s: status %d", apiURL, res.StatusCode),
		}
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return &source.FetchError{Source: srcName, Reason: source.ReasonParse, Err: err}
	}
	return nil
}

// --- Greenhouse ---

type ghResponse struct {
	Jobs []ghJob `json:"jobs"`
}

type ghJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Content string `json:"content"`
}

func (a *Adapter) fetchGreenhouse(ctx context.Context, src source.Descriptor) ([]domain.RawCandidate, error) {
	slug := BoardSlug(src.URL)
	if slug == "" {
		return nil, &source.FetchError{
			Source: src.Name,
			Reason: source.ReasonParse,
			Err:    fmt.Errorf("no board slug in %q", src.URL),
		}
	}
	apiURL := fmt.Sprintf(greenhouseAPI, slug)

	var body ghResponse
	if err := a.getJSON(ctx, src.Name, apiURL, &body); err != nil {
		return nil, err
	}

	out := make([]domain.RawCandidate, 0, len(body.Jobs))
	for _, j := range body.Jobs {
		if j.AbsoluteURL == "" || strings.TrimSpace(j.Title) == "" {
			continue
		}
		out = append(out, domain.RawCandidate{
			Company:     src.Company,
			Title:       j.Title,
			Link:        j.AbsoluteURL,
			Location:    j.Location.Name,
			PostedAt:    j.UpdatedAt,
			Description: j.Content,
			Source:      src.Name,
		})
	}
	a.log.Debug("feed fetched",
		zap.String("vendor", "greenhouse"),
		zap.String("source", src.Name),
		zap.Int("candidates", len(out)))
	return out, nil
}

// --- Lever ---

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location string `json:"location"`
	} `json:"categories"`
	Description string `json:"description"`
}

func (a *Adapter) fetchLever(ctx context.Context, src source.Descriptor) ([]domain.RawCandidate, error) {
	slug := BoardSlug(src.URL)
	if slug == "" {
		return nil, &source.FetchError{
			Source: src.Name,
			Reason: source.ReasonParse,
			Err:    fmt.Errorf("no board slug in %q", src.URL),
		}
	}
	apiURL := fmt.Sprintf(leverAPI, slug)

	var postings []leverPosting
	if err := a.getJSON(ctx, src.Name, apiURL, &postings); err != nil {
		return nil, err
	}

	out := make([]domain.RawCandidate, 0, len(postings))
	for _, p := range postings {
		if p.HostedURL == "" || strings.TrimSpace(p.Text) == "" {
			continue
		}
		posted := ""
		if p.CreatedAt > 0 {
			posted = time.UnixMilli(p.CreatedAt).UTC().Format("2006-01-02")
		}
		out = append(out, domain.RawCandidate{
			Company:     src.Company,
			Title:       p.Text,
			Link:        p.HostedURL,
			Location:    p.Categories.Location,
			PostedAt:    posted,
			Description: p.Description,
			Source:      src.Name,
		})
	}
	a.log.Debug("feed fetched",
		zap.String("vendor", "lever"),
		zap.String("source", src.Name),
		zap.Int("candidates", len(out)))
	return out, nil
}

// --- SmartRecruiters ---

type srResponse struct {
	Content []srPosting `json:"content"`
}

type srPosting struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ReleasedDate string `json:"releasedDate"`
	Location     struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
}

func (a *Adapter) fetchSmartRecruiters(ctx context.Context, src source.Descriptor) ([]domain.RawCandidate, error) {
	slug := BoardSlug(src.URL)
	if slug == "" {
		return nil, &source.FetchError{
			Source: src.Name,
			Reason: source.ReasonParse,
			Err:    fmt.Errorf("no board slug in %q", src.URL),
		}
	}
	apiURL := fmt.Sprintf(smartRecruitersAPI, slug)

	var body srResponse
	if err := a.getJSON(ctx, src.Name, apiURL, &body); err != nil {
		return nil, err
	}

	out := make([]domain.RawCandidate, 0, len(body.Content))
	for _, p := range body.Content {
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			continue
		}
		loc := joinNonEmpty(", ", p.Location.City, p.Location.Region, p.Location.Country)
		out = append(out, domain.RawCandidate{
			Company:  src.Company,
			Title:    p.Name,
			Link:     fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", slug, p.ID),
			Location: loc,
			PostedAt: p.ReleasedDate,
			Source:   src.Name,
		})
	}
	a.log.Debug("feed fetched",
		zap.String("vendor", "smartrecruiters"),
		zap.String("source", src.Name),
		zap.Int("candidates", len(out)))
	return out, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}
