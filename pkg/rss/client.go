package rss

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	fetchTimeout = 10 * time.Second
	maxItems     = 10
)

// Item is one normalized feed entry.
type Item struct {
	Title     string
	Link      string
	Published time.Time
}

// Client fetches and parses one feed document per call. It keeps no
// per-feed state and is safe for concurrent use.
type Client struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewClient() *Client {
	return &Client{
		parser:  gofeed.NewParser(),
		timeout: fetchTimeout,
	}
}

// Fetch retrieves a single feed. A non-success status, timeout or
// malformed document is reported as an error; there are no retries.
// Entries without a parseable date keep the zero time and rank oldest.
func (c *Client) Fetch(ctx context.Context, url string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	feed, err := c.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	items := make([]Item, 0, maxItems)
	for _, entry := range feed.Items {
		if len(items) == maxItems {
			break
		}
		it := Item{Title: entry.Title, Link: entry.Link}
		if entry.PublishedParsed != nil {
			it.Published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			it.Published = *entry.UpdatedParsed
		}
		items = append(items, it)
	}
	return items, nil
}
