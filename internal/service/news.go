package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/example/newspulse-bot/internal/config"
	"github.com/example/newspulse-bot/internal/model"
	"github.com/example/newspulse-bot/pkg/rss"
)

// ErrNoContent means every source failed or produced nothing. It is a
// normal outcome for the caller to render, not a fault.
var ErrNoContent = errors.New("no content")

// digestLimit caps the merged result of one aggregation.
const digestLimit = 7

// FeedFetcher describes the part of the rss client used by the service.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]rss.Item, error)
}

// NewsService mixes all sources of a topic into one digest.
type NewsService struct {
	fetcher FeedFetcher
	topics  map[string][]model.FeedSource
	labels  map[string]string
}

func NewNewsService(fetcher FeedFetcher, topics map[string][]model.FeedSource, labels map[string]string) *NewsService {
	return &NewsService{fetcher: fetcher, topics: topics, labels: labels}
}

// sourceBatch carries one source's fetch outcome through the fan-in
// channel. order is the source's position in the topic list, so merge
// ties stay deterministic regardless of goroutine completion order.
type sourceBatch struct {
	order int
	name  string
	items []rss.Item
	err   error
}

// Aggregate fetches every source of the topic concurrently and merges
// the results: freshest first, one entry per normalized title, at most
// digestLimit entries. An unknown topic falls back to the default list.
// Failed sources are dropped from the merge, never surfaced.
func (s *NewsService) Aggregate(ctx context.Context, topic string) (*model.Digest, error) {
	sources, ok := s.topics[topic]
	if !ok {
		topic = config.DefaultTopic
		sources = s.topics[topic]
	}
	if len(sources) == 0 {
		return nil, ErrNoContent
	}

	results := make(chan sourceBatch, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(order int, src model.FeedSource) {
			defer wg.Done()
			items, err := s.fetcher.Fetch(ctx, src.URL)
			results <- sourceBatch{order: order, name: src.Name, items: items, err: err}
		}(i, src)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	batches := make([]sourceBatch, 0, len(sources))
	for b := range results {
		if b.err != nil {
			log.Printf("news: source %s dropped: %v", b.name, b.err)
			continue
		}
		batches = append(batches, b)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].order < batches[j].order })

	all := make([]model.ContentItem, 0, len(batches)*maxItems)
	for _, b := range batches {
		for _, it := range b.items {
			all = append(all, model.ContentItem{
				Title:      it.Title,
				Link:       it.Link,
				Published:  it.Published,
				SourceName: b.name,
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Published.After(all[j].Published) })

	seen := make(map[string]struct{}, len(all))
	items := make([]model.ContentItem, 0, digestLimit)
	for _, it := range all {
		key := normalizeTitle(it.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, it)
		if len(items) == digestLimit {
			break
		}
	}
	if len(items) == 0 {
		return nil, ErrNoContent
	}
	return &model.Digest{Topic: topic, Label: s.labels[topic], Items: items}, nil
}

// maxItems mirrors the per-source cap of the rss client so the merge
// slice can be sized up front.
const maxItems = 10

// FetchSingle retrieves one arbitrary feed outside the topic table.
func (s *NewsService) FetchSingle(ctx context.Context, url string) ([]rss.Item, error) {
	items, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoContent
	}
	return items, nil
}

// Topics lists the known topic keys in no particular order.
func (s *NewsService) Topics() []string {
	out := make([]string, 0, len(s.topics))
	for t := range s.topics {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// normalizeTitle is the dedup key: case-folded, NBSP collapsed,
// surrounding whitespace stripped. Two items with the same normalized
// title are treated as the same story even across sources.
func normalizeTitle(t string) string {
	t = strings.ReplaceAll(t, " ", " ")
	return strings.TrimSpace(strings.ToLower(t))
}

// FormatDigest renders a digest as Telegram HTML.
func FormatDigest(d *model.Digest) string {
	label := d.Label
	if label == "" {
		label = d.Topic
	}
	lines := []string{fmt.Sprintf("<b>%s</b>", html.EscapeString(label)), ""}
	for i, it := range d.Items {
		title := strings.TrimSpace(strings.ReplaceAll(it.Title, " ", " "))
		lines = append(lines,
			fmt.Sprintf("%d. <a href='%s'>%s</a>", i+1, it.Link, html.EscapeString(title)),
			fmt.Sprintf("   <i>%s</i>", html.EscapeString(it.SourceName)),
			"")
	}
	return strings.Join(lines, "\n")
}

// FormatFeed renders a single raw feed as Telegram HTML.
func FormatFeed(title string, items []rss.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📡 <b>RSS: %s</b>\n\n", html.EscapeString(title))
	for i, it := range items {
		fmt.Fprintf(&b, "%d. <a href='%s'>%s</a>\n", i+1, it.Link, html.EscapeString(strings.TrimSpace(it.Title)))
		if !it.Published.IsZero() {
			fmt.Fprintf(&b, "   <i>%s</i>\n", it.Published.Format("02.01.2006 15:04"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
