// Package search provides the web research clients behind the crew's
// tools: Serper.dev Google search and a bounded website scraper.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const serperEndpoint = "https://google.serper.dev"

// defaultResultCount is how many organic results one search requests.
const defaultResultCount = 10

// SerperClient queries the Serper.dev Google search API.
type SerperClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSerperClient creates a client with the given API key.
func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		apiKey:   apiKey,
		endpoint: serperEndpoint,
		client:   &http.Client{},
	}
}

// NewSerperClientWithEndpoint creates a client against a custom endpoint.
// Used in tests.
func NewSerperClientWithEndpoint(apiKey, endpoint string) *SerperClient {
	c := NewSerperClient(apiKey)
	c.endpoint = strings.TrimRight(endpoint, "/")
	return c
}

// serperRequest is the request body for the search API.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

// OrganicResult is one search hit.
type OrganicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position,omitempty"`
}

// AnswerBox is the featured answer, when present.
type AnswerBox struct {
	Title   string `json:"title,omitempty"`
	Answer  string `json:"answer,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Results holds the parts of a search response the agents use.
type Results struct {
	Organic   []OrganicResult `json:"organic"`
	AnswerBox *AnswerBox      `json:"answerBox,omitempty"`
}

// Search runs a Google search for query.
func (c *SerperClient) Search(ctx context.Context, query string) (*Results, error) {
	bodyJSON, err := json.Marshal(serperRequest{Q: query, Num: defaultResultCount})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/search", strings.NewReader(string(bodyJSON)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var results Results
	if err := json.Unmarshal(respBody, &results); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &results, nil
}

// Format renders the results as readable text for the model.
func (r *Results) Format() string {
	if r == nil || (len(r.Organic) == 0 && r.AnswerBox == nil) {
		return "No results found."
	}

	var b strings.Builder
	if r.AnswerBox != nil {
		answer := r.AnswerBox.Answer
		if answer == "" {
			answer = r.AnswerBox.Snippet
		}
		if answer != "" {
			fmt.Fprintf(&b, "Answer: %s\n\n", answer)
		}
	}
	for i, res := range r.Organic {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, res.Title, res.Link, res.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}
