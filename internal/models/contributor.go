package models

// Contributor represents a named individual associated with a repository,
// merged from one or more extraction sources.
type Contributor struct {
	Name            string  `json:"name"`
	Email           *string `json:"email,omitempty"`
	CommitCount     *int    `json:"commit_count,omitempty"`
	FirstCommitDate *string `json:"first_commit_date,omitempty"`
	LastCommitDate  *string `json:"last_commit_date,omitempty"`
}

// NewContributor creates a contributor with only a name set
func NewContributor(name string) *Contributor {
	return &Contributor{Name: name}
}

// SetEmail sets the contributor's email
func (c *Contributor) SetEmail(email string) {
	c.Email = &email
}

// HasEmail reports whether the contributor has a non-empty email
func (c *Contributor) HasEmail() bool {
	return c.Email != nil && *c.Email != ""
}

// fill copies non-nil optional fields from other into unset fields of c.
// The name and any already-set fields are kept.
func (c *Contributor) fill(other *Contributor) {
	if c.Email == nil && other.Email != nil {
		c.Email = other.Email
	}
	if c.CommitCount == nil && other.CommitCount != nil {
		c.CommitCount = other.CommitCount
	}
	if c.FirstCommitDate == nil && other.FirstCommitDate != nil {
		c.FirstCommitDate = other.FirstCommitDate
	}
	if c.LastCommitDate == nil && other.LastCommitDate != nil {
		c.LastCommitDate = other.LastCommitDate
	}
}

// MergeContributors deduplicates contributor lists by name, preserving
// first-seen order. The first record for a name wins; later duplicates only
// fill in optional fields the first record is missing. Lists are expected in
// adapter priority order.
func MergeContributors(lists ...[]*Contributor) []*Contributor {
	var merged []*Contributor
	byName := make(map[string]*Contributor)

	for _, list := range lists {
		for _, contributor := range list {
			if contributor == nil || contributor.Name == "" {
				continue
			}
			if existing, ok := byName[contributor.Name]; ok {
				existing.fill(contributor)
				continue
			}
			kept := *contributor
			byName[contributor.Name] = &kept
			merged = append(merged, &kept)
		}
	}

	return merged
}
