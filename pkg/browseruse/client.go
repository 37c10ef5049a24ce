// Package browseruse is a minimal client for the browser-use.com session API,
// used to drive a remote browser through search pages that block plain HTTP
// clients.
package browseruse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the browser-use.com HTTP API. It holds credentials only;
// per-browser state lives in the Session a caller starts, so one Client can
// serve concurrent searches.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a browser automation client. The API key is sent with
// every request; an empty key means the client is unusable and callers should
// skip browser-backed search tiers.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Enabled reports whether the client has credentials configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// PageContent is the rendered state of the current page.
type PageContent struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

// Session is one remote browser session. It is owned by the caller that
// started it and must not be shared between goroutines.
type Session struct {
	client *Client
	id     string
}

// StartSession opens a new remote browser session.
func (c *Client) StartSession() (*Session, error) {
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.do(http.MethodPost, "/sessions", map[string]interface{}{}, &resp); err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}
	return &Session{client: c, id: resp.SessionID}, nil
}

// Navigate loads a URL in the session.
func (s *Session) Navigate(url string) error {
	path := fmt.Sprintf("/sessions/%s/navigate", s.id)
	if err := s.client.do(http.MethodPost, path, map[string]string{"url": url}, nil); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// GetPageContent returns the rendered HTML of the current page.
func (s *Session) GetPageContent() (*PageContent, error) {
	content := &PageContent{}
	path := fmt.Sprintf("/sessions/%s/content", s.id)
	if err := s.client.do(http.MethodGet, path, nil, content); err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}
	return content, nil
}

// Type fills the element matching the CSS selector with text.
func (s *Session) Type(selector, text string) error {
	path := fmt.Sprintf("/sessions/%s/type", s.id)
	return s.client.do(http.MethodPost, path, map[string]string{"selector": selector, "text": text}, nil)
}

// Click clicks the element matching the CSS selector.
func (s *Session) Click(selector string) error {
	path := fmt.Sprintf("/sessions/%s/click", s.id)
	return s.client.do(http.MethodPost, path, map[string]string{"selector": selector}, nil)
}

// Close tears down the remote browser session. Safe to call twice.
func (s *Session) Close() error {
	if s.id == "" {
		return nil
	}
	path := fmt.Sprintf("/sessions/%s", s.id)
	err := s.client.do(http.MethodDelete, path, nil, nil)
	s.id = ""
	return err
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("browser-use API returned status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
