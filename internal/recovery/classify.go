package recovery

import (
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"jobsift-engine/internal/domain"
)

// functionRules is evaluated top to bottom; the first family with a keyword
// hit wins, so a "Data Engineer" lands in Engineering by declaration order.
var functionRules = []struct {
	fn       domain.Function
	keywords []string
}{
	{domain.FuncEngineering, []string{
		"engineer", "developer", "devops", "sre", "software", "architect",
		"backend", "frontend", "full stack", "fullstack", "infrastructure",
		"security", "qa", "sdet", "platform",
	}},
	{domain.FuncDataAnalytics, []string{
		"data", "analyst", "analytics", "scientist", "machine learning",
		"business intelligence", "statistician",
	}},
	{domain.FuncProduct, []string{
		"product manager", "product owner", "product designer", "product",
		"ux", "ui designer", "design",
	}},
	{domain.FuncSales, []string{
		"sales", "account executive", "business development", "account manager",
		"solutions consultant", "presales", "pre-sales",
	}},
	{domain.FuncCustomerSuccess, []string{
		"customer success", "customer support", "support engineer", "support",
		"customer experience", "technical account",
	}},
	{domain.FuncMarketing, []string{
		"marketing", "growth", "content", "seo", "brand", "communications",
		"demand generation",
	}},
	{domain.FuncOperations, []string{
		"operations", "people", "recruiter", "talent", "finance", "legal",
		"accountant", "office manager", "administrative", "procurement",
	}},
}

// seniorityRules is in strict rank order; the highest rank with a pattern
// hit wins, so "Senior Director" is Director+.
var seniorityRules = []struct {
	level domain.Seniority
	re    *regexp.Regexp
}{
	{domain.SeniorityDirector, regexp.MustCompile(`(?i)\b(director|vp|vice president|head of|chief|cto|ceo|cfo|coo)\b`)},
	{domain.SenioritySeniorLead, regexp.MustCompile(`(?i)\b(senior|sr\.?|lead|staff|principal|expert)\b`)},
	{domain.SeniorityMid, regexp.MustCompile(`(?i)\b(mid[- ]?level|intermediate|ii|iii)\b`)},
	{domain.SeniorityEntry, regexp.MustCompile(`(?i)\b(junior|jr\.?|entry[- ]?level|graduate|associate|early career)\b`)},
	{domain.SeniorityIntern, regexp.MustCompile(`(?i)\b(intern|internship|trainee|working student|co-op)\b`)},
}

// skillVocabulary is the fixed set scanned with word boundaries. Keep terms
// lowercase.
var skillVocabulary = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "rust",
	"scala", "ruby", "php", "c++", "c#", "kotlin", "swift",
	"react", "vue", "angular", "node.js", "next.js",
	"sql", "postgres", "postgresql", "mysql", "mongodb", "redis",
	"snowflake", "bigquery", "databricks", "dbt", "spark", "kafka",
	"airflow", "hadoop", "elasticsearch",
	"aws", "gcp", "azure", "kubernetes", "docker", "terraform", "ansible",
	"linux", "git", "ci/cd", "grafana", "prometheus",
	"tableau", "power bi", "looker", "excel", "salesforce", "hubspot",
	"machine learning", "deep learning", "nlp", "pytorch", "tensorflow",
	"etl", "rest", "graphql", "grpc",
}

var skillMatchers = buildSkillMatchers()

func buildSkillMatchers() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(skillVocabulary))
	for _, s := range skillVocabulary {
		m[s] = skillRe(s)
	}
	return m
}

// skillRe builds a word-boundary matcher; \b misbehaves next to '+', '#'
// and '.', so terms with those get explicit delimiter classes.
func skillRe(term string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(term)
	if strings.ContainsAny(term, "+#./") {
		return regexp.MustCompile(`(?i)(^|[\s,;:/()])` + quoted + `($|[\s,;:()])`)
	}
	return regexp.MustCompile(`(?i)\b` + quoted + `\b`)
}

// ClassifyFunction is a pure function of title+description.
func ClassifyFunction(title, description string) domain.Function {
	blob := strings.ToLower(title + " " + description)
	for _, rule := range functionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(blob, kw) {
				return rule.fn
			}
		}
	}
	return domain.FuncOther
}

// ClassifySeniority scans title, location and description jointly, highest
// rank first.
func ClassifySeniority(title, location, description string) domain.Seniority {
	blob := title + " " + location + " " + description
	for _, rule := range seniorityRules {
		if rule.re.MatchString(blob) {
			return rule.level
		}
	}
	return domain.SeniorityUnknown
}

// ExtractSkills returns the deduplicated vocabulary hits in title+
// description, sorted for deterministic output.
func ExtractSkills(title, description string) []string {
	blob := title + " " + description
	hits := mapset.NewThreadUnsafeSet[string]()
	for term, re := range skillMatchers {
		if re.MatchString(blob) {
			hits.Add(term)
		}
	}
	out := hits.ToSlice()
	sort.Strings(out)
	return out
}
