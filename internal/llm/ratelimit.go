package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// rateLimited wraps a provider with a crew-wide requests-per-minute cap.
// Complete blocks until the limiter grants a slot or the context is
// cancelled.
type rateLimited struct {
	Provider
	limiter *rate.Limiter
}

// RateLimited caps the provider at maxRPM requests per minute. Zero or
// negative maxRPM returns the provider unchanged.
func RateLimited(p Provider, maxRPM int) Provider {
	if maxRPM <= 0 {
		return p
	}
	return &rateLimited{
		Provider: p,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRPM)), 1),
	}
}

func (r *rateLimited) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.Provider.Complete(ctx, req)
}
