package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

// Bing queries the Bing Web Search API.
type Bing struct {
	Key string
}

func (b *Bing) Name() string    { return "bing" }
func (b *Bing) Available() bool { return b.Key != "" }

func (b *Bing) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := "https://api.bing.microsoft.com/v7.0/search?q=" + url.QueryEscape(query) + "&count=10&textFormat=Raw"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", b.Key)

	var payload struct {
		WebPages struct {
			Value []struct {
				Name       string `json:"name"`
				URL        string `json:"url"`
				Snippet    string `json:"snippet"`
				DisplayURL string `json:"displayUrl"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := getJSON(req, &payload); err != nil {
		return nil, fmt.Errorf("bing search: %w", err)
	}

	results := make([]Result, 0, len(payload.WebPages.Value))
	for _, item := range payload.WebPages.Value {
		display := item.DisplayURL
		if display == "" {
			display = item.URL
		}
		results = append(results, Result{Title: item.Name, URL: item.URL, Snippet: item.Snippet, DisplayURL: display})
	}
	return results, nil
}

// Brave queries the Brave Search API.
type Brave struct {
	Key string
}

func (b *Brave) Name() string    { return "brave" }
func (b *Brave) Available() bool { return b.Key != "" }

func (b *Brave) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := "https://api.search.brave.com/res/v1/web/search?q=" + url.QueryEscape(query) + "&count=10"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", b.Key)

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := getJSON(req, &payload); err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}

	results := make([]Result, 0, len(payload.Web.Results))
	for _, item := range payload.Web.Results {
		results = append(results, Result{Title: item.Title, URL: item.URL, Snippet: item.Description, DisplayURL: item.URL})
	}
	return results, nil
}

// SerpAPI queries Google results through serpapi.com.
type SerpAPI struct {
	Key string
}

func (s *SerpAPI) Name() string    { return "serpapi" }
func (s *SerpAPI) Available() bool { return s.Key != "" }

func (s *SerpAPI) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := "https://serpapi.com/search.json?engine=google&q=" + url.QueryEscape(query) + "&api_key=" + url.QueryEscape(s.Key) + "&num=10"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		OrganicResults []struct {
			Title         string `json:"title"`
			Link          string `json:"link"`
			Snippet       string `json:"snippet"`
			DisplayedLink string `json:"displayed_link"`
		} `json:"organic_results"`
	}
	if err := getJSON(req, &payload); err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}

	results := make([]Result, 0, len(payload.OrganicResults))
	for _, item := range payload.OrganicResults {
		display := item.DisplayedLink
		if display == "" {
			display = item.Link
		}
		results = append(results, Result{Title: item.Title, URL: item.Link, Snippet: item.Snippet, DisplayURL: display})
	}
	return results, nil
}

// DuckDuckGo is the keyless fallback. Its instant-answer API mostly yields
// abstracts and related topics; when even those are empty it returns a single
// synthetic entry pointing at the search page so the response stays
// well-formed.
type DuckDuckGo struct{}

func (d *DuckDuckGo) Name() string    { return "duckduckgo" }
func (d *DuckDuckGo) Available() bool { return true }

func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := "https://api.duckduckgo.com/?q=" + url.QueryEscape(query) + "&format=json&no_html=1&skip_disambig=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Heading        string `json:"Heading"`
		Abstract       string `json:"Abstract"`
		AbstractURL    string `json:"AbstractURL"`
		AbstractSource string `json:"AbstractSource"`
		RelatedTopics  []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := getJSON(req, &payload); err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	var results []Result
	if payload.Abstract != "" {
		title := payload.Heading
		if title == "" {
			title = "DuckDuckGo Result"
		}
		results = append(results, Result{Title: title, URL: payload.AbstractURL, Snippet: payload.Abstract, DisplayURL: payload.AbstractSource})
	}
	for i, topic := range payload.RelatedTopics {
		if i >= 5 {
			break
		}
		if topic.Text == "" || topic.FirstURL == "" {
			continue
		}
		title := topic.Text
		if idx := strings.Index(title, " - "); idx > 0 {
			title = title[:idx]
		}
		results = append(results, Result{Title: title, URL: topic.FirstURL, Snippet: topic.Text, DisplayURL: topic.FirstURL})
	}

	if len(results) == 0 {
		results = append(results, Result{
			Title:      "Limited Search Results",
			URL:        "https://duckduckgo.com/?q=" + url.QueryEscape(query),
			Snippet:    fmt.Sprintf("Search results for %q - configure a search API key for better results", query),
			DisplayURL: "duckduckgo.com",
		})
	}
	return results, nil
}

func getJSON(req *http.Request, into any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}
