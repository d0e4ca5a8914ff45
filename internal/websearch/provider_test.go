package websearch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      string
	available bool
	results   []Result
	err       error
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Search(ctx context.Context, query string) ([]Result, error) {
	f.calls++
	return f.results, f.err
}

func TestChainFirstAvailableWins(t *testing.T) {
	first := &fakeProvider{name: "first", available: true, results: []Result{{Title: "hit"}}}
	second := &fakeProvider{name: "second", available: true, results: []Result{{Title: "other"}}}
	chain := NewChain(first, second)

	resp, err := chain.Search(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "hit", resp.Results[0].Title)
	assert.Equal(t, "go", resp.Query)
	assert.NotZero(t, resp.Timestamp)
	assert.Zero(t, second.calls)
}

func TestChainSkipsUnconfigured(t *testing.T) {
	keyless := &fakeProvider{name: "keyless", available: false}
	fallback := &fakeProvider{name: "fallback", available: true, results: []Result{{Title: "fallback"}}}
	chain := NewChain(keyless, fallback)

	resp, err := chain.Search(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Results[0].Title)
	assert.Zero(t, keyless.calls)
}

func TestChainFallsThroughOnError(t *testing.T) {
	broken := &fakeProvider{name: "broken", available: true, err: errors.New("boom")}
	fallback := &fakeProvider{name: "fallback", available: true, results: []Result{{Title: "fallback"}}}
	chain := NewChain(broken, fallback)

	resp, err := chain.Search(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, "fallback", resp.Results[0].Title)
}

func TestChainExhausted(t *testing.T) {
	broken := &fakeProvider{name: "broken", available: true, err: errors.New("boom")}
	chain := NewChain(broken)

	_, err := chain.Search(context.Background(), "go")
	require.Error(t, err)
}
