package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/newspulse-bot/internal/model"
	"github.com/example/newspulse-bot/internal/repository"
	"github.com/example/newspulse-bot/internal/service"
	"github.com/example/newspulse-bot/pkg/rss"
)

type memSubs struct {
	subs []*model.Subscription
	err  error
}

var _ repository.SubscriptionRepository = (*memSubs)(nil)

func (m *memSubs) Get(ctx context.Context, userID int64) (*model.Subscription, error) {
	for _, s := range m.subs {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memSubs) Save(ctx context.Context, sub *model.Subscription) error { return nil }

func (m *memSubs) Delete(ctx context.Context, userID int64) error { return nil }

func (m *memSubs) List(ctx context.Context) ([]*model.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.subs, nil
}

type panicSubs struct{ memSubs }

func (p *panicSubs) List(ctx context.Context) ([]*model.Subscription, error) {
	panic("boom")
}

type fakeSink struct {
	mu        sync.Mutex
	delivered map[int64][]string
	fail      map[int64]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{delivered: map[int64][]string{}, fail: map[int64]bool{}}
}

func (s *fakeSink) SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[chatID] {
		return errors.New("blocked by user")
	}
	s.delivered[chatID] = append(s.delivered[chatID], text)
	return nil
}

type stubFetcher struct {
	items []rss.Item
	err   error
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]rss.Item, error) {
	return f.items, f.err
}

func testNews(fetcher service.FeedFetcher) *service.NewsService {
	topics := map[string][]model.FeedSource{
		"general": {{Name: "Wire", URL: "http://wire/rss"}},
	}
	return service.NewNewsService(fetcher, topics, map[string]string{"general": "Top stories"})
}

func TestDispatcher_DeliversAtExactLocalMinute(t *testing.T) {
	subs := &memSubs{subs: []*model.Subscription{
		{UserID: 42, Target: "Paris", Time: "08:30", TZOffsetSec: 3600},
	}}
	sink := newFakeSink()
	fetcher := &stubFetcher{items: []rss.Item{{Title: "hello", Link: "http://wire/1", Published: time.Unix(10, 0)}}}
	d := NewDispatcher(subs, testNews(fetcher), sink)
	ctx := context.Background()

	// 07:29 UTC is 08:29 local: nothing due yet
	d.deliverDue(ctx, time.Date(2026, 3, 1, 7, 29, 0, 0, time.UTC))
	if len(sink.delivered[42]) != 0 {
		t.Fatalf("delivered too early")
	}

	d.deliverDue(ctx, time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC))
	if got := len(sink.delivered[42]); got != 1 {
		t.Fatalf("expected exactly one delivery at the matching minute, got %d", got)
	}
	if !strings.Contains(sink.delivered[42][0], "hello") {
		t.Fatalf("digest content missing: %q", sink.delivered[42][0])
	}

	d.deliverDue(ctx, time.Date(2026, 3, 1, 7, 31, 0, 0, time.UTC))
	if got := len(sink.delivered[42]); got != 1 {
		t.Fatalf("delivered outside the matching minute, total %d", got)
	}
}

func TestDispatcher_SinkFailureDoesNotAffectOthers(t *testing.T) {
	subs := &memSubs{subs: []*model.Subscription{
		{UserID: 1, Target: "general", Time: "10:00"},
		{UserID: 2, Target: "general", Time: "10:00"},
	}}
	sink := newFakeSink()
	sink.fail[1] = true
	fetcher := &stubFetcher{items: []rss.Item{{Title: "x", Link: "http://wire/1", Published: time.Unix(10, 0)}}}
	d := NewDispatcher(subs, testNews(fetcher), sink)

	d.deliverDue(context.Background(), time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	if len(sink.delivered[2]) != 1 {
		t.Fatalf("second subscription not delivered after first sink failure")
	}
}

func TestDispatcher_FetchFailureSkipsSilently(t *testing.T) {
	subs := &memSubs{subs: []*model.Subscription{
		{UserID: 1, Target: "general", Time: "10:00"},
	}}
	sink := newFakeSink()
	d := NewDispatcher(subs, testNews(&stubFetcher{err: errors.New("timeout")}), sink)

	d.deliverDue(context.Background(), time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	if len(sink.delivered) != 0 {
		t.Fatalf("expected no delivery on fetch failure")
	}
}

func TestDispatcher_TickPanicRecovered(t *testing.T) {
	d := NewDispatcher(&panicSubs{}, testNews(&stubFetcher{}), newFakeSink())

	pause := d.tick(context.Background())
	if pause != fallbackPause {
		t.Fatalf("expected fallback pause after panic, got %v", pause)
	}
}

func TestDispatcher_TickAlignsToMinute(t *testing.T) {
	subs := &memSubs{}
	d := NewDispatcher(subs, testNews(&stubFetcher{}), newFakeSink())
	d.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 15, 0, time.UTC) }

	if pause := d.tick(context.Background()); pause != 45*time.Second {
		t.Fatalf("expected sleep to the next minute boundary, got %v", pause)
	}
}
