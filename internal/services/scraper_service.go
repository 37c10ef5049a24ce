package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var arxivIDPattern = regexp.MustCompile(`(\d{4}\.\d{4,5})(v\d+)?`)

// RepositoryInfo describes a hub repository page
type RepositoryInfo struct {
	FullPath    string
	Owner       string
	Name        string
	URL         string
	GitURL      string
	Description string
	RawHTML     string
	ArxivID     string
}

// HubScraperService fetches repository pages from the model hub and extracts
// the pieces the contributor adapters need: the rendered description text,
// the raw markup and any referenced paper identifier.
type HubScraperService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewHubScraperService creates a new hub scraper
func NewHubScraperService(baseURL, userAgent string, httpClient *http.Client) *HubScraperService {
	return &HubScraperService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// GetRepositoryInfo fetches and parses the repository page. A nil result
// means the repository could not be found.
func (s *HubScraperService) GetRepositoryInfo(ctx context.Context, repoPath string) (*RepositoryInfo, error) {
	pageURL := fmt.Sprintf("%s/%s", s.baseURL, repoPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request repository page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse repository page: %w", err)
	}

	owner, name := splitRepoPath(repoPath)
	info := &RepositoryInfo{
		FullPath: repoPath,
		Owner:    owner,
		Name:     name,
		URL:      pageURL,
		GitURL:   pageURL + ".git",
	}

	if html, err := doc.Html(); err == nil {
		info.RawHTML = html
	}

	// Model card body
	if prose := doc.Find("div.prose").First(); prose.Length() > 0 {
		info.Description = strings.TrimSpace(prose.Text())
	}

	// Referenced paper, if any
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.Contains(href, "arxiv.org") || strings.Contains(href, "arxiv:") {
			if match := arxivIDPattern.FindString(href); match != "" {
				info.ArxivID = match
				return false
			}
		}
		return true
	})

	return info, nil
}

func splitRepoPath(repoPath string) (owner, name string) {
	parts := strings.SplitN(repoPath, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return repoPath, repoPath
}
