package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/pkg/browseruse"
	"github.com/hfscout/hfscout/pkg/logger"
	"github.com/ledongthuc/pdf"
)

const (
	// maxLinkedPapers bounds how many linked documents are opened per
	// bibliographic search
	maxLinkedPapers = 3
	// maxArxivPapers bounds how many matching papers are downloaded from
	// the preprint repository
	maxArxivPapers = 5
	// maxResultLinks bounds how many web search result pages are visited
	maxResultLinks = 3
	// maxPDFPages bounds document scanning; emails almost always appear
	// on the first pages
	maxPDFPages = 3
)

// EmailSearchOptions configure the external sources consulted by the
// collector. Zero values fall back to the public services.
type EmailSearchOptions struct {
	DBLPBaseURL      string
	ArxivAPIURL      string
	WebSearchBaseURL string
	ScholarBaseURL   string
	UserAgent        string
}

func (o *EmailSearchOptions) applyDefaults() {
	if o.DBLPBaseURL == "" {
		o.DBLPBaseURL = "https://dblp.org"
	}
	if o.ArxivAPIURL == "" {
		o.ArxivAPIURL = "https://export.arxiv.org/api/query"
	}
	if o.WebSearchBaseURL == "" {
		o.WebSearchBaseURL = "https://www.google.com"
	}
	if o.ScholarBaseURL == "" {
		o.ScholarBaseURL = "https://scholar.google.com"
	}
}

// EmailSearchService discovers candidate email addresses for a contributor
// name by scanning bibliographic indices, preprint documents and web search
// results. Sources form a strict fallback chain: a tier runs only while all
// prior tiers found nothing. Every external call shares one bounded-timeout
// HTTP client and is never retried.
type EmailSearchService struct {
	validation *EmailValidationService
	browser    *browseruse.Client
	httpClient *http.Client
	opts       EmailSearchOptions
}

// NewEmailSearchService creates a new email search service. browser may be
// nil or disabled, in which case the browser-backed tier is skipped.
func NewEmailSearchService(validation *EmailValidationService, browser *browseruse.Client, httpClient *http.Client, opts EmailSearchOptions) *EmailSearchService {
	opts.applyDefaults()
	return &EmailSearchService{
		validation: validation,
		browser:    browser,
		httpClient: httpClient,
		opts:       opts,
	}
}

// Search collects candidate emails for a contributor. The affiliation is
// optional; it only unlocks the general web tier. Ranking is left to the
// caller.
func (s *EmailSearchService) Search(ctx context.Context, name, affiliation string) *models.EmailSearchResult {
	result := models.NewEmailSearchResult(name, affiliation)

	pdfDir, err := os.MkdirTemp("", "hfscout-pdf-")
	if err != nil {
		logger.WithError(err).Warnf("Failed to create document directory for %s", name)
		return result
	}
	defer os.RemoveAll(pdfDir)

	if s.browser != nil && s.browser.Enabled() {
		s.searchScholar(ctx, name, affiliation, pdfDir, result)
	}

	if !result.HasCandidates() {
		s.searchDBLP(ctx, name, pdfDir, result)
	}

	if !result.HasCandidates() {
		s.searchArxiv(ctx, name, pdfDir, result)
	}

	if !result.HasCandidates() && affiliation != "" {
		s.searchWeb(ctx, name, affiliation, result)
	}

	return result
}

// searchDBLP looks the name up in the bibliographic index and scans up to
// maxLinkedPapers linked documents from the first matching author page.
func (s *EmailSearchService) searchDBLP(ctx context.Context, name, pdfDir string, result *models.EmailSearchResult) {
	searchURL := fmt.Sprintf("%s/search?q=%s", s.opts.DBLPBaseURL, url.QueryEscape(name))
	doc, err := s.fetchDocument(ctx, searchURL)
	if err != nil {
		logger.WithError(err).Warnf("DBLP search failed for %s", name)
		return
	}

	var authorURL string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.Contains(href, "/pid/") {
			authorURL = href
			return false
		}
		return true
	})
	if authorURL == "" {
		return
	}
	if strings.HasPrefix(authorURL, "/") {
		authorURL = s.opts.DBLPBaseURL + authorURL
	}

	authorDoc, err := s.fetchDocument(ctx, authorURL)
	if err != nil {
		logger.WithError(err).Warnf("DBLP author page failed for %s", name)
		return
	}

	var paperLinks []string
	authorDoc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.Contains(href, ".pdf") || strings.Contains(href, "doi.org") || strings.Contains(href, "arxiv.org") {
			paperLinks = append(paperLinks, href)
		}
	})

	for i, link := range paperLinks {
		if i == maxLinkedPapers {
			break
		}
		if strings.Contains(link, ".pdf") {
			s.scanRemotePDF(ctx, link, name, pdfDir, result)
			continue
		}
		pageDoc, err := s.fetchDocument(ctx, link)
		if err != nil {
			logger.WithError(err).Warnf("Failed to open paper page %s", link)
			continue
		}
		s.scanText(pageDoc.Text(), models.EmailSourceBibliographicPage, link, result)
	}
}

// searchArxiv queries the preprint repository for papers by the author and
// scans each matching paper's document.
func (s *EmailSearchService) searchArxiv(ctx context.Context, name, pdfDir string, result *models.EmailSearchResult) {
	query := url.QueryEscape(fmt.Sprintf("au:%s", name))
	queryURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d", s.opts.ArxivAPIURL, query, maxArxivPapers)

	body, err := s.fetch(ctx, queryURL)
	if err != nil {
		logger.WithError(err).Warnf("arXiv search failed for %s", name)
		return
	}

	for _, pdfURL := range parseArxivPDFLinks(body, maxArxivPapers) {
		s.scanRemotePDF(ctx, pdfURL, name, pdfDir, result)
	}
}

// searchWeb runs a general web search for name+affiliation+"email" and
// scans the result page plus up to maxResultLinks linked pages.
func (s *EmailSearchService) searchWeb(ctx context.Context, name, affiliation string, result *models.EmailSearchResult) {
	query := fmt.Sprintf("%s %s email", name, affiliation)
	searchURL := fmt.Sprintf("%s/search?q=%s", s.opts.WebSearchBaseURL, url.QueryEscape(query))

	doc, err := s.fetchDocument(ctx, searchURL)
	if err != nil {
		logger.WithError(err).Warnf("Web search failed for %s", name)
		return
	}

	s.scanText(doc.Text(), models.EmailSourceSearchResult, searchURL, result)

	var resultLinks []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "/url?q=") {
			return
		}
		target := strings.SplitN(strings.TrimPrefix(href, "/url?q="), "&", 2)[0]
		if target == "" || strings.Contains(target, "google.com") || seen[target] {
			return
		}
		seen[target] = true
		resultLinks = append(resultLinks, target)
	})

	for i, link := range resultLinks {
		if i == maxResultLinks {
			break
		}
		pageDoc, err := s.fetchDocument(ctx, link)
		if err != nil {
			logger.WithError(err).Warnf("Failed to visit result link %s", link)
			continue
		}
		s.scanText(pageDoc.Text(), models.EmailSourceWebPage, link, result)
	}
}

// searchScholar drives the browser-automation collaborator through Google
// Scholar, harvesting paper links from the rendered results.
func (s *EmailSearchService) searchScholar(ctx context.Context, name, affiliation, pdfDir string, result *models.EmailSearchResult) {
	// Each search drives its own browser session
	session, err := s.browser.StartSession()
	if err != nil {
		logger.WithError(err).Warnf("Failed to start browser session for %s", name)
		return
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.WithError(err).Warnf("Failed to close browser session")
		}
	}()

	query := name
	if affiliation != "" {
		query += " " + affiliation
	}

	if err := session.Navigate(s.opts.ScholarBaseURL + "/"); err != nil {
		logger.WithError(err).Warnf("Scholar navigation failed for %s", name)
		return
	}
	if err := session.Type("input[name='q']", query); err != nil {
		logger.WithError(err).Warnf("Scholar query input failed for %s", name)
		return
	}
	if err := session.Click("button[type='submit']"); err != nil {
		logger.WithError(err).Warnf("Scholar search failed for %s", name)
		return
	}

	content, err := session.GetPageContent()
	if err != nil {
		logger.WithError(err).Warnf("Scholar results unavailable for %s", name)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTML))
	if err != nil {
		return
	}

	var paperLinks []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		switch {
		case strings.Contains(href, ".pdf"):
			paperLinks = append(paperLinks, href)
		case strings.Contains(href, "/scholar?cluster="):
			paperLinks = append(paperLinks, s.opts.ScholarBaseURL+href)
		}
	})

	for i, link := range paperLinks {
		if i == maxLinkedPapers {
			break
		}
		if strings.Contains(link, ".pdf") {
			s.scanRemotePDF(ctx, link, name, pdfDir, result)
			continue
		}
		pageDoc, err := s.fetchDocument(ctx, link)
		if err != nil {
			continue
		}
		s.scanText(pageDoc.Text(), models.EmailSourceSearchResult, link, result)
	}
}

// scanText extracts valid candidate emails from text and records them with
// their provenance.
func (s *EmailSearchService) scanText(text string, kind models.EmailSourceKind, locator string, result *models.EmailSearchResult) {
	for _, email := range s.validation.FindEmails(text) {
		if s.validation.IsValid(email) {
			result.AddCandidate(email, kind, locator)
		}
	}
}

// scanRemotePDF downloads a document and scans its first pages for emails
func (s *EmailSearchService) scanRemotePDF(ctx context.Context, pdfURL, name, pdfDir string, result *models.EmailSearchResult) {
	localPath := filepath.Join(pdfDir, fmt.Sprintf("%s_%d.pdf", strings.ReplaceAll(name, " ", "_"), len(result.Candidates)))
	if err := s.downloadFile(ctx, pdfURL, localPath); err != nil {
		logger.WithError(err).Warnf("Failed to download document %s", pdfURL)
		return
	}

	text, err := extractPDFText(localPath, maxPDFPages)
	if err != nil {
		logger.WithError(err).Warnf("Failed to read document %s", localPath)
		return
	}

	s.scanText(text, models.EmailSourceDocument, pdfURL, result)
}

func (s *EmailSearchService) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (s *EmailSearchService) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := s.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func (s *EmailSearchService) downloadFile(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", rawURL, resp.Status)
	}

	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return err
}

// parseArxivPDFLinks pulls the PDF link out of each entry of an arXiv API
// Atom feed.
func parseArxivPDFLinks(feedXML string, limit int) []string {
	var feed struct {
		Entries []struct {
			Links []struct {
				Title string `xml:"title,attr"`
				Href  string `xml:"href,attr"`
			} `xml:"link"`
		} `xml:"entry"`
	}
	if err := xml.Unmarshal([]byte(feedXML), &feed); err != nil {
		logger.WithError(err).Warnf("Failed to parse arXiv feed")
		return nil
	}

	var links []string
	for _, entry := range feed.Entries {
		for _, link := range entry.Links {
			if link.Title == "pdf" && link.Href != "" {
				links = append(links, link.Href)
				break
			}
		}
		if len(links) == limit {
			break
		}
	}
	return links
}

// extractPDFText returns the plain text of the first maxPages pages
func extractPDFText(path string, maxPages int) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var text strings.Builder
	pages := reader.NumPage()
	if pages > maxPages {
		pages = maxPages
	}
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(content)
	}

	return text.String(), nil
}
