// Package news fetches filler items from the external RSS-to-JSON proxy.
// The collaborator is strictly best-effort: any failure or empty response
// means "no filler this cycle" and is never surfaced as an error.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hottakes/internal/cache"
	"hottakes/internal/models"
	"hottakes/internal/observability"
)

// Fetcher supplies filler items for the feed composer.
type Fetcher interface {
	FetchItems(ctx context.Context) []models.NewsItem
}

// Client fetches and adapts the proxy's response. Items are cached so a flaky
// upstream doesn't empty the feed's filler slots on every cycle.
type Client struct {
	feedURL   string
	itemLimit int
	http      *http.Client
}

// NewClient creates a news client for the given RSS2JSON proxy URL.
func NewClient(feedURL string, itemLimit int, timeout time.Duration) *Client {
	if itemLimit <= 0 {
		itemLimit = 3
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		feedURL:   feedURL,
		itemLimit: itemLimit,
		http:      &http.Client{Timeout: timeout},
	}
}

// proxyResponse mirrors the RSS2JSON payload shape.
type proxyResponse struct {
	Status string      `json:"status"`
	Items  []proxyItem `json:"items"`
}

type proxyItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	PubDate     string `json:"pubDate"`
	Thumbnail   string `json:"thumbnail"`
	Enclosure   struct {
		URL string `json:"link"`
	} `json:"enclosure"`
}

// FetchItems returns up to itemLimit parsed items, or nil on any failure.
func (c *Client) FetchItems(ctx context.Context) []models.NewsItem {
	var items []models.NewsItem
	err := cache.Aside(ctx, cache.NewsKey, &items, cache.NewsTTL, func() error {
		fetched, err := c.fetch(ctx)
		if err != nil {
			return err
		}
		items = fetched
		return nil
	})
	if err != nil {
		observability.NewsFetchFailures.Inc()
		observability.Logger.WarnContext(ctx, "news fetch failed, skipping filler",
			"error", err.Error())
		return nil
	}
	return items
}

func (c *Client) fetch(ctx context.Context) ([]models.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news proxy returned status %d", resp.StatusCode)
	}

	var payload proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("news proxy returned status %q", payload.Status)
	}

	items := make([]models.NewsItem, 0, c.itemLimit)
	for _, raw := range payload.Items {
		if len(items) == c.itemLimit {
			break
		}
		items = append(items, adaptItem(raw))
	}
	return items, nil
}
