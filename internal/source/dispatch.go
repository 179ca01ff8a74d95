package source

import "strings"

// signature maps a URL substring to a platform kind + vendor. Checked in
// slice order; first match wins so detection stays deterministic.
type signature struct {
	substr string
	kind   Kind
	vendor Vendor
}

var signatures = []signature{
	{"boards-api.greenhouse.io", KindFeedAPI, VendorGreenhouse},
	{"boards.greenhouse.io", KindFeedAPI, VendorGreenhouse},
	{"greenhouse.io", KindFeedAPI, VendorGreenhouse},
	{"api.lever.co", KindFeedAPI, VendorLever},
	{"jobs.lever.co", KindFeedAPI, VendorLever},
	{"lever.co", KindFeedAPI, VendorLever},
	{"smartrecruiters.com", KindFeedAPI, VendorSmartRecruiters},
	{"apply.workable.com", KindStructuredHTML, VendorWorkable},
	{"workable.com", KindStructuredHTML, VendorWorkable},
	{"recruitee.com", KindStructuredHTML, VendorRecruitee},
	{"myworkdayjobs.com", KindBrowserRendered, VendorNone},
	{"ashbyhq.com", KindBrowserRendered, VendorNone},
}

// Dispatcher picks the adapter for a source. It never fails: the generic
// adapter is the universal fallback.
type Dispatcher struct {
	FeedAPI        Adapter
	StructuredHTML Adapter
	Generic        Adapter
	Browser        Adapter
}

// Resolve returns the adapter for src, plus the descriptor with detected
// kind/vendor filled in when the configuration declared none.
func (d *Dispatcher) Resolve(src Descriptor) (Adapter, Descriptor) {
	if src.Kind == KindUnknown || src.Kind == "" {
		src.Kind, src.Vendor = Detect(src.URL)
	}

	switch src.Kind {
	case KindFeedAPI:
		if d.FeedAPI != nil {
			return d.FeedAPI, src
		}
	case KindStructuredHTML:
		if d.StructuredHTML != nil {
			return d.StructuredHTML, src
		}
	case KindBrowserRendered:
		if d.Browser != nil {
			return d.Browser, src
		}
	}
	return d.Generic, src
}

// Detect inspects the URL against known vendor signatures.
func Detect(rawURL string) (Kind, Vendor) {
	low := strings.ToLower(rawURL)
	for _, sig := range signatures {
		if strings.Contains(low, sig.substr) {
			return sig.kind, sig.vendor
		}
	}
	return KindUnknown, VendorNone
}
