package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/pkg/logger"
)

var (
	bibtexAuthorPattern   = regexp.MustCompile(`author\s*=\s*\{([^}]+)\}`)
	bibtexEntryPattern    = regexp.MustCompile(`@[a-zA-Z]+\{[^}]*author\s*=\s*\{([^}]+)\}`)
	authorSplitPattern    = regexp.MustCompile(`\s+and\s+|\n\s*`)
	byNamePattern         = regexp.MustCompile(`by\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	authorLabelPattern    = regexp.MustCompile(`[Aa]uthor[s]?:\s*([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	etAlPattern           = regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)\s+et\s+al\.`)
	capitalizedNamePattern = regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)`)
)

// nonNamePhrases are capitalized two-token phrases that show up in model
// cards but are never people.
var nonNamePhrases = map[string]bool{
	"Hugging Face":     true,
	"Model Card":       true,
	"Natural Language": true,
	"Machine Learning": true,
	"Deep Learning":    true,
}

// maxWholeTextNames caps the last-resort whole-text scan to limit false
// positives.
const maxWholeTextNames = 5

// descriptionStrategy attempts one extraction heuristic over the model card
// text; an empty result means the next strategy in the chain is consulted.
type descriptionStrategy func(text string) []*models.Contributor

// ContributorExtractService derives contributor records from a repository
// page when the git history yields nothing: model-card text heuristics,
// paper author metadata and embedded citation fields, tried in that order.
type ContributorExtractService struct {
	arxivAPIURL string
	userAgent   string
	httpClient  *http.Client
	strategies  []descriptionStrategy
}

// NewContributorExtractService creates a new extraction service
func NewContributorExtractService(arxivAPIURL, userAgent string, httpClient *http.Client) *ContributorExtractService {
	s := &ContributorExtractService{
		arxivAPIURL: arxivAPIURL,
		userAgent:   userAgent,
		httpClient:  httpClient,
	}
	s.strategies = []descriptionStrategy{
		extractBibtexAuthors,
		extractByNames,
		extractAuthorLabels,
		extractEtAlCitations,
		extractHeadingNames,
		extractWholeTextNames,
	}
	return s
}

// Extract runs the adapter fallback chain over a repository page. Each
// adapter is consulted only while all prior adapters produced nothing.
func (s *ContributorExtractService) Extract(ctx context.Context, info *RepositoryInfo) []*models.Contributor {
	contributors := s.FromDescription(info.Description)

	if len(contributors) == 0 && info.ArxivID != "" {
		contributors = s.FromPaper(ctx, info.ArxivID)
	}

	if len(contributors) == 0 {
		contributors = s.FromCitation(info.RawHTML)
	}

	return models.MergeContributors(contributors)
}

// FromDescription applies the description-text strategies in order until
// one yields at least one name.
func (s *ContributorExtractService) FromDescription(text string) []*models.Contributor {
	if text == "" {
		return nil
	}
	for _, strategy := range s.strategies {
		if contributors := strategy(text); len(contributors) > 0 {
			return contributors
		}
	}
	return nil
}

// atom feed subset returned by the arXiv API
type arxivFeed struct {
	Entries []struct {
		Authors []struct {
			Name string `xml:"name"`
		} `xml:"author"`
	} `xml:"entry"`
}

// FromPaper fetches structured author metadata for an arXiv identifier
func (s *ContributorExtractService) FromPaper(ctx context.Context, arxivID string) []*models.Contributor {
	queryURL := fmt.Sprintf("%s?id_list=%s", s.arxivAPIURL, url.QueryEscape(arxivID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warnf("Failed to query arXiv metadata for %s", arxivID)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warnf("arXiv metadata query for %s returned %s", arxivID, resp.Status)
		return nil
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		logger.WithError(err).Warnf("Failed to parse arXiv metadata for %s", arxivID)
		return nil
	}

	var contributors []*models.Contributor
	for _, entry := range feed.Entries {
		for _, author := range entry.Authors {
			name := strings.TrimSpace(author.Name)
			if name != "" {
				contributors = append(contributors, models.NewContributor(name))
			}
		}
	}
	return contributors
}

// FromCitation parses a BibTeX entry embedded in the page's raw markup,
// normalizing "Last, First" author names to "First Last".
func (s *ContributorExtractService) FromCitation(rawHTML string) []*models.Contributor {
	match := bibtexEntryPattern.FindStringSubmatch(rawHTML)
	if match == nil {
		return nil
	}

	var contributors []*models.Contributor
	for _, author := range authorSplitPattern.Split(match[1], -1) {
		author = strings.TrimSpace(author)
		if author == "" {
			continue
		}
		if comma := strings.Index(author, ","); comma >= 0 {
			last := strings.TrimSpace(author[:comma])
			first := strings.TrimSpace(author[comma+1:])
			if first != "" && last != "" {
				author = first + " " + last
			}
		}
		contributors = append(contributors, models.NewContributor(author))
	}
	return contributors
}

func extractBibtexAuthors(text string) []*models.Contributor {
	match := bibtexAuthorPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	var contributors []*models.Contributor
	for _, author := range authorSplitPattern.Split(match[1], -1) {
		if author = strings.TrimSpace(author); author != "" {
			contributors = append(contributors, models.NewContributor(author))
		}
	}
	return contributors
}

func extractByNames(text string) []*models.Contributor {
	return contributorsFromMatches(byNamePattern.FindAllStringSubmatch(text, -1))
}

func extractAuthorLabels(text string) []*models.Contributor {
	return contributorsFromMatches(authorLabelPattern.FindAllStringSubmatch(text, -1))
}

func extractEtAlCitations(text string) []*models.Contributor {
	return contributorsFromMatches(etAlPattern.FindAllStringSubmatch(text, -1))
}

// extractHeadingNames scans paragraphs adjacent to author-ish headings.
// Operating on plain text, a "heading" is a line mentioning authors and the
// adjacent paragraph is the following non-empty line.
func extractHeadingNames(text string) []*models.Contributor {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "author") && !strings.Contains(lower, "creator") && !strings.Contains(lower, "contributor") {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if contributors := contributorsFromMatches(capitalizedNamePattern.FindAllStringSubmatch(next, -1)); len(contributors) > 0 {
				return contributors
			}
			break
		}
	}
	return nil
}

func extractWholeTextNames(text string) []*models.Contributor {
	var contributors []*models.Contributor
	for _, match := range capitalizedNamePattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if nonNamePhrases[name] {
			continue
		}
		contributors = append(contributors, models.NewContributor(name))
		if len(contributors) == maxWholeTextNames {
			break
		}
	}
	return contributors
}

func contributorsFromMatches(matches [][]string) []*models.Contributor {
	var contributors []*models.Contributor
	for _, match := range matches {
		if name := strings.TrimSpace(match[1]); name != "" && !nonNamePhrases[name] {
			contributors = append(contributors, models.NewContributor(name))
		}
	}
	return contributors
}
