package models

// EmailSourceKind identifies where a candidate email was discovered
type EmailSourceKind string

const (
	EmailSourceSearchResult      EmailSourceKind = "search_result"
	EmailSourceBibliographicPage EmailSourceKind = "bibliographic_page"
	EmailSourceDocument          EmailSourceKind = "document"
	EmailSourceWebPage           EmailSourceKind = "web_page"
)

// EmailCandidate is an email-shaped string found in some text source,
// not yet confirmed correct.
type EmailCandidate struct {
	Email         string          `json:"email"`
	SourceKind    EmailSourceKind `json:"source_kind"`
	SourceLocator string          `json:"source_locator"`
}

// EmailSearchResult collects candidate emails for one subject across the
// search fallback chain. Candidates keep discovery order and are unique by
// literal email value.
type EmailSearchResult struct {
	SubjectName string           `json:"name"`
	Affiliation string           `json:"affiliation,omitempty"`
	Candidates  []EmailCandidate `json:"candidates"`
	BestGuess   *string          `json:"most_likely_email"`

	seen map[string]bool
}

// NewEmailSearchResult creates an empty result for the given subject
func NewEmailSearchResult(name, affiliation string) *EmailSearchResult {
	return &EmailSearchResult{
		SubjectName: name,
		Affiliation: affiliation,
		seen:        make(map[string]bool),
	}
}

// AddCandidate appends a candidate unless its email value was already
// recorded. Returns true if the candidate was added.
func (r *EmailSearchResult) AddCandidate(email string, kind EmailSourceKind, locator string) bool {
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if r.seen[email] {
		return false
	}
	r.seen[email] = true
	r.Candidates = append(r.Candidates, EmailCandidate{
		Email:         email,
		SourceKind:    kind,
		SourceLocator: locator,
	})
	return true
}

// HasCandidates reports whether at least one candidate was found
func (r *EmailSearchResult) HasCandidates() bool {
	return len(r.Candidates) > 0
}
