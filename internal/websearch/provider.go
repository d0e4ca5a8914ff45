package websearch

import (
	"context"
	"errors"
	"log"
	"time"

	"branch-chat-service/internal/observability"
)

// Result is one ranked search hit.
type Result struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	DisplayURL string `json:"displayUrl"`
}

// Response is the shape returned to clients.
type Response struct {
	Query     string   `json:"query"`
	Results   []Result `json:"results"`
	Timestamp int64    `json:"timestamp"`
}

// Provider is one search backend. Available reports whether the provider is
// configured (usually: has an API key); unavailable providers are skipped.
type Provider interface {
	Name() string
	Available() bool
	Search(ctx context.Context, query string) ([]Result, error)
}

// Chain tries providers in priority order with uniform error handling: an
// unavailable provider is skipped, a failing one logged and fallen through.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain over the given providers, first match wins.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

var errNoProvider = errors.New("no search provider available")

// Search runs the query through the chain and wraps the first successful
// provider's results in the response envelope.
func (c *Chain) Search(ctx context.Context, query string) (Response, error) {
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		results, err := p.Search(ctx, query)
		if err != nil {
			observability.IncUpstreamError("search:" + p.Name())
			log.Printf("search provider %s failed, trying next: %v", p.Name(), err)
			continue
		}
		return Response{Query: query, Results: results, Timestamp: time.Now().UnixMilli()}, nil
	}
	return Response{}, errNoProvider
}
