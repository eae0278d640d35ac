package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Sofa Buying Guide</title>
	<style>body { color: red; }</style>
</head>
<body>
	<script>console.log("tracking");</script>
	<h1>How to Choose a Sofa</h1>
	<p>Measure   your
	room first.</p>
	<noscript>Enable JavaScript</noscript>
	<div><span>Typical depth is 36 inches.</span></div>
</body>
</html>`

func TestScraper_Scrape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "decora") {
			t.Errorf("User-Agent = %q, want decora agent", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer ts.Close()

	text, err := NewScraper().Scrape(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	for _, want := range []string{"How to Choose a Sofa", "Measure your room first.", "Typical depth is 36 inches."} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q in:\n%s", want, text)
		}
	}
	for _, banned := range []string{"console.log", "color: red", "Enable JavaScript", "Sofa Buying Guide"} {
		if strings.Contains(text, banned) {
			t.Errorf("text should not contain %q:\n%s", banned, text)
		}
	}
}

func TestScraper_ScrapeErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	_, err := NewScraper().Scrape(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("error = %v, want status 404 mention", err)
	}
}

func TestScraper_ScrapeEmptyPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><script>x()</script></head><body></body></html>`))
	}))
	defer ts.Close()

	_, err := NewScraper().Scrape(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error for page with no readable text")
	}
}

func TestScraper_ScrapeTruncatesLongPages(t *testing.T) {
	long := "<html><body><p>" + strings.Repeat("furniture ", 3000) + "</p></body></html>"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(long))
	}))
	defer ts.Close()

	text, err := NewScraper().Scrape(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	if len([]rune(text)) > scrapeTextLimit+3 {
		t.Errorf("len(text) = %d, want at most %d plus ellipsis", len([]rune(text)), scrapeTextLimit)
	}
	if !strings.HasSuffix(text, "...") {
		t.Error("truncated text should end with ellipsis")
	}
}
