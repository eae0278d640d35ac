package llm

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ResponseCache memoizes completions in a local sqlite database, keyed by
// a hash of the full request. Identical prompts against the same model
// are served without an API call.
type ResponseCache struct {
	db *sql.DB
}

// OpenResponseCache opens the cache database at path, creating it if
// needed.
func OpenResponseCache(path string) (*ResponseCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS llm_cache (
			key TEXT PRIMARY KEY,
			provider TEXT,
			model TEXT,
			response TEXT,
			created_at DATETIME
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &ResponseCache{db: db}, nil
}

// Get returns the cached response for key, or nil when absent.
func (c *ResponseCache) Get(key string) (*Response, error) {
	var raw string
	err := c.db.QueryRow(`SELECT response FROM llm_cache WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}

	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode cached response: %w", err)
	}
	return &resp, nil
}

// Put stores resp under key.
func (c *ResponseCache) Put(key, provider, model string, resp *Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO llm_cache (key, provider, model, response, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, provider, model, string(raw), time.Now())
	if err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (c *ResponseCache) Close() error {
	return c.db.Close()
}

// CacheKey derives a stable key for a request against a given model. Map
// keys marshal in sorted order, so structurally equal requests hash the
// same.
func CacheKey(model string, req Request) string {
	h := sha256.New()
	io.WriteString(h, model)
	io.WriteString(h, "\x00")
	io.WriteString(h, req.System)
	io.WriteString(h, "\x00")

	enc := json.NewEncoder(h)
	_ = enc.Encode(req.Messages)
	_ = enc.Encode(req.Tools)
	fmt.Fprintf(h, "%d|%g", req.MaxTokens, req.Temperature)

	return hex.EncodeToString(h.Sum(nil))
}

// cached wraps a provider with the response cache. The key covers the
// whole conversation so far, so tool-loop turns cache independently.
type cached struct {
	Provider
	cache *ResponseCache
}

// Cached wraps p with cache c. A nil cache returns p unchanged.
func Cached(p Provider, c *ResponseCache) Provider {
	if c == nil {
		return p
	}
	return &cached{Provider: p, cache: c}
}

func (cp *cached) Complete(ctx context.Context, req Request) (*Response, error) {
	key := CacheKey(cp.Model(), req)
	if hit, err := cp.cache.Get(key); err == nil && hit != nil {
		// A hit consumes no tokens.
		hit.InputTokens = 0
		hit.OutputTokens = 0
		return hit, nil
	}

	resp, err := cp.Provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	_ = cp.cache.Put(key, cp.Name(), cp.Model(), resp)
	return resp, nil
}
