package services

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

type WikipediaClient struct {
	baseURL    string
	httpClient *http.Client
}

var wikipediaClient *WikipediaClient

func InitWikipedia() {
	baseURL := os.Getenv("WIKIPEDIA_BASE_URL")
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}

	wikipediaClient = NewWikipediaClient(baseURL)
}

func NewWikipediaClient(baseURL string) *WikipediaClient {
	return &WikipediaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func GetWikipediaClient() *WikipediaClient {
	return wikipediaClient
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiSummaryResponse struct {
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// FetchDestinationImage looks up a thumbnail image for the destination via
// Wikipedia's search and page-summary APIs. Returns "" on any failure —
// the image is decoration, never worth failing a planning request over.
func (c *WikipediaClient) FetchDestinationImage(ctx context.Context, destination string) string {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("list", "search")
	q.Set("srsearch", destination)
	q.Set("srlimit", "1")

	body, ok := c.get(ctx, c.baseURL+"/w/api.php?"+q.Encode())
	if !ok {
		return ""
	}

	var search wikiSearchResponse
	if err := json.Unmarshal(body, &search); err != nil || len(search.Query.Search) == 0 {
		return ""
	}

	title := search.Query.Search[0].Title
	body, ok = c.get(ctx, c.baseURL+"/api/rest_v1/page/summary/"+url.PathEscape(title))
	if !ok {
		return ""
	}

	var summary wikiSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return ""
	}
	return summary.Thumbnail.Source
}

func (c *WikipediaClient) get(ctx context.Context, rawURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", "TripMate/1.0 (contact@example.com)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️  Wikipedia request failed: %v", err)
		return nil, false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️  Wikipedia error (%d)", resp.StatusCode)
		return nil, false
	}
	return body, true
}
