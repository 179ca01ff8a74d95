package domain

import "time"

// RawCandidate is one observed job anchor/card before any trust is
// established. Multiple candidates may refer to the same real posting
// (listing-page anchor text vs. detail-page heading).
type RawCandidate struct {
	Company     string
	Title       string
	Link        string // absolute URL
	Location    string
	PostedAt    string // free-form, as the source printed it
	Description string
	Source      string // source name that produced the candidate
}

// RecoveredRecord is a RawCandidate after field recovery: every field is
// populated on a best-effort basis, never trusted past this run.
type RecoveredRecord struct {
	Company     string
	Title       string
	TitleUsable bool
	Link        string
	Location    string
	PostingDate *time.Time // calendar date, nil when unparsed
	Function    Function
	Seniority   Seniority
	Skills      []string
	Source      string
}

// CanonicalPosting is the unit of output: one row per canonical link.
type CanonicalPosting struct {
	Company         string
	Title           string
	Link            string // canonical; dedup identity
	Location        string
	PostingDate     *time.Time
	DaysSincePosted *int
	Function        Function
	Seniority       Seniority
	Skills          []string
}

type Function string

const (
	FuncEngineering     Function = "Engineering"
	FuncDataAnalytics   Function = "Data & Analytics"
	FuncProduct         Function = "Product"
	FuncSales           Function = "Sales"
	FuncCustomerSuccess Function = "Customer Success"
	FuncMarketing       Function = "Marketing"
	FuncOperations      Function = "Operations"
	FuncOther           Function = "Other"
)

type Seniority string

const (
	SeniorityIntern     Seniority = "Intern"
	SeniorityEntry      Seniority = "Entry"
	SeniorityMid        Seniority = "Mid"
	SenioritySeniorLead Seniority = "Senior/Lead"
	SeniorityDirector   Seniority = "Director+"
	SeniorityUnknown    Seniority = "Unknown"
)
