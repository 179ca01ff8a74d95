package source

import (
	"context"
	"fmt"

	"jobsift-engine/internal/domain"
)

// Kind is the hosting technology behind a source.
type Kind string

const (
	KindUnknown         Kind = "unknown"
	KindFeedAPI         Kind = "feedapi"
	KindStructuredHTML  Kind = "html"
	KindBrowserRendered Kind = "browser"
)

// Vendor identifies the ATS platform behind a feed or HTML source.
type Vendor string

const (
	VendorNone            Vendor = ""
	VendorGreenhouse      Vendor = "greenhouse"
	VendorLever           Vendor = "lever"
	VendorSmartRecruiters Vendor = "smartrecruiters"
	VendorWorkable        Vendor = "workable"
	VendorRecruitee       Vendor = "recruitee"
)

// Descriptor is one configured career-site source. Immutable; supplied by
// configuration.
type Descriptor struct {
	Name    string
	Company string
	URL     string
	Kind    Kind
	Vendor  Vendor
}

// Adapter turns a source into raw candidates. Implementations are stateless
// and safe for concurrent use.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, src Descriptor) ([]domain.RawCandidate, error)
}

type FetchReason string

const (
	ReasonTimeout    FetchReason = "timeout"
	ReasonHTTPStatus FetchReason = "http_status"
	ReasonParse      FetchReason = "parse"
)

// FetchError is the only error adapters return. The orchestrator treats it
// as non-fatal for the run: skip the source, log, continue.
type FetchError struct {
	Source string
	Reason FetchReason
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.Source, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
