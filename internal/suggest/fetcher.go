// Package suggest scrapes book titles from the Goodreads search page.
// Failures never propagate: the error is folded into the returned slice so
// callers can render it like any other result.
package suggest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultBaseURL = "https://www.goodreads.com"
	// requestTimeout bounds the outbound call; the upstream site sets no
	// SLA, so a hung connection must not hang the request handler.
	requestTimeout = 10 * time.Second
	// maxSuggestions caps how many titles one query returns.
	maxSuggestions = 5

	userAgent = "Mozilla/5.0"
)

// Client fetches search suggestions from the book site.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a suggestion client against the real site.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client against an arbitrary base URL.
// Used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Fetch returns up to maxSuggestions titles for the topic. Any network or
// parse failure yields a single element describing the error; an empty
// result page yields a single "No suggestions found." element.
func (c *Client) Fetch(ctx context.Context, topic string) []string {
	searchURL := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(topic))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return errorResult(err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errorResult(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorResult(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return errorResult(err)
	}

	suggestions := make([]string, 0, maxSuggestions)
	doc.Find("a.bookTitle span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		if title != "" {
			suggestions = append(suggestions, title)
		}
		return len(suggestions) < maxSuggestions
	})

	if len(suggestions) == 0 {
		return []string{"No suggestions found."}
	}
	return suggestions
}

func errorResult(err error) []string {
	return []string{fmt.Sprintf("Error fetching suggestions: %v", err)}
}
