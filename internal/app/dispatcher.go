package app

import (
	"context"
	"log"
	"time"

	"github.com/example/newspulse-bot/internal/repository"
	"github.com/example/newspulse-bot/internal/service"
)

// Deliverer hands rendered text to a recipient. Satisfied by the
// telegram client.
type Deliverer interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]string) error
}

// fallbackPause is slept after a tick that panicked.
const fallbackPause = 60 * time.Second

// Dispatcher wakes up once a minute and delivers the digest to every
// subscription whose local wall-clock time matches its configured
// delivery time. It owns no subscription state beyond reading the
// repository on each tick.
type Dispatcher struct {
	subs repository.SubscriptionRepository
	news *service.NewsService
	sink Deliverer
	now  func() time.Time
}

func NewDispatcher(subs repository.SubscriptionRepository, news *service.NewsService, sink Deliverer) *Dispatcher {
	return &Dispatcher{subs: subs, news: news, sink: sink, now: time.Now}
}

// Run loops until ctx is cancelled. Sleeps are aligned to minute
// boundaries (60 - current second) so ticks land near :00 instead of
// drifting; a tick that panics is logged and followed by a fixed pause.
// The loop itself never terminates on a tick failure.
func (d *Dispatcher) Run(ctx context.Context) {
	log.Println("dispatcher: started")
	for {
		pause := d.tick(ctx)
		select {
		case <-ctx.Done():
			log.Println("dispatcher: stopped")
			return
		case <-time.After(pause):
		}
	}
}

// tick runs one scan and reports how long to sleep before the next one.
func (d *Dispatcher) tick(ctx context.Context) (pause time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatcher: tick panic: %v", r)
			pause = fallbackPause
		}
	}()
	d.deliverDue(ctx, d.now().UTC())
	return time.Duration(60-d.now().Second()) * time.Second
}

// deliverDue fires one fetch and delivery for every subscription whose
// local time matches the current minute exactly. A failure for one
// subscription is logged and skipped; the rest of the scan continues.
func (d *Dispatcher) deliverDue(ctx context.Context, now time.Time) {
	subs, err := d.subs.List(ctx)
	if err != nil {
		log.Println("dispatcher: list subscriptions:", err)
		return
	}
	for _, sub := range subs {
		local := now.Add(time.Duration(sub.TZOffsetSec) * time.Second)
		if local.Format("15:04") != sub.Time {
			continue
		}
		log.Printf("dispatcher: delivering %q to user %d", sub.Target, sub.UserID)
		digest, err := d.news.Aggregate(ctx, sub.Target)
		if err != nil {
			// no retry until the same minute comes around tomorrow
			log.Printf("dispatcher: fetch for user %d: %v", sub.UserID, err)
			continue
		}
		text := "🔔 <b>Daily digest</b>\n\n" + service.FormatDigest(digest)
		if err := d.sink.SendMessage(ctx, sub.UserID, text, nil); err != nil {
			log.Printf("dispatcher: deliver to user %d: %v", sub.UserID, err)
		}
	}
}
