package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// Limits on scraped pages. Bodies beyond scrapeBodyLimit are truncated
// before parsing; extracted text is capped at scrapeTextLimit runes so
// tool results stay inside the model context.
const (
	scrapeBodyLimit = 1 << 20
	scrapeTextLimit = 8000
)

// scrapeUserAgent identifies the scraper; some sites reject the Go
// default agent.
const scrapeUserAgent = "Mozilla/5.0 (compatible; decora/1.0)"

// Scraper fetches a page and reduces it to readable text.
type Scraper struct {
	client *http.Client
}

// NewScraper creates a Scraper.
func NewScraper() *Scraper {
	return &Scraper{client: &http.Client{}}
}

// Scrape fetches url and returns the page text with markup, scripts, and
// styles removed.
func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch error (status %d) for %s", resp.StatusCode, url)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, scrapeBodyLimit))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	text := ExtractText(doc)
	if text == "" {
		return "", fmt.Errorf("no readable text at %s", url)
	}
	return text, nil
}

// ExtractText walks a parsed document collecting visible text. Script,
// style, and head subtrees are skipped and whitespace is collapsed, one
// line per text node.
func ExtractText(doc *html.Node) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, strings.Join(strings.Fields(t), " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(parts, "\n")
	runes := []rune(text)
	if len(runes) > scrapeTextLimit {
		text = string(runes[:scrapeTextLimit]) + "..."
	}
	return text
}
