package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/newspulse-bot/internal/config"
	"github.com/example/newspulse-bot/internal/repository"
	"github.com/example/newspulse-bot/internal/service"
	"github.com/example/newspulse-bot/pkg/exchange"
	"github.com/example/newspulse-bot/pkg/holidays"
	"github.com/example/newspulse-bot/pkg/rss"
	"github.com/example/newspulse-bot/pkg/spaceflight"
	"github.com/example/newspulse-bot/pkg/telegram"
)

const defaultHolidayCountry = "RU"

// App coordinates the services, the telegram update loop and the
// scheduled dispatcher.
type App struct {
	cfg      *config.Config
	repo     repository.SubscriptionRepository
	tgClient *telegram.Client
	news     *service.NewsService
	rates    *service.RatesService
	space    *service.SpaceService
	calendar *service.CalendarService
	subs     *service.SubscriptionService
}

func New(cfg *config.Config, repo repository.SubscriptionRepository) *App {
	return &App{
		cfg:      cfg,
		repo:     repo,
		tgClient: telegram.NewClient(cfg.TelegramToken),
		news:     service.NewNewsService(rss.NewClient(), cfg.Topics, cfg.Labels),
		rates:    service.NewRatesService(exchange.NewClient("")),
		space:    service.NewSpaceService(spaceflight.NewClient("")),
		calendar: service.NewCalendarService(holidays.NewClient("")),
		subs:     service.NewSubscriptionService(repo),
	}
}

func (a *App) Run(ctx context.Context) error {
	a.setCommands(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	dispatcher := NewDispatcher(a.repo, a.news, a.tgClient)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.handleUpdates(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx)
	}()

	<-ctx.Done()
	wg.Wait()
	return nil
}

func (a *App) handleUpdates(ctx context.Context) {
	offset := 0
	for {
		updates, err := a.tgClient.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Println("get updates:", err)
			time.Sleep(time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil {
				continue
			}
			a.handleMessage(ctx, u.Message)
		}
	}
}

func (a *App) handleMessage(ctx context.Context, m *telegram.Message) {
	fields := strings.Fields(m.Text)
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/start":
		a.sendMessage(ctx, m.Chat.ID, startMessage)
	case "/topics":
		a.sendMessage(ctx, m.Chat.ID, "Available topics:\n"+strings.Join(a.news.Topics(), "\n"))
	case "/news":
		topic := config.DefaultTopic
		if len(args) > 0 {
			topic = args[0]
		}
		a.handleNews(ctx, m.Chat.ID, topic)
	case "/feed":
		if len(args) == 0 {
			a.sendMessage(ctx, m.Chat.ID, "Usage: /feed <url>")
			return
		}
		a.handleFeed(ctx, m.Chat.ID, args[0])
	case "/rates":
		a.handleRates(ctx, m.Chat.ID)
	case "/space":
		a.handleSpace(ctx, m.Chat.ID)
	case "/holidays":
		country := defaultHolidayCountry
		if len(args) > 0 {
			country = args[0]
		}
		a.handleHolidays(ctx, m.Chat.ID, country)
	case "/subscribe":
		a.handleSubscribe(ctx, m.Chat.ID, args)
	case "/unsubscribe":
		a.handleUnsubscribe(ctx, m.Chat.ID)
	default:
		// ignore other messages
	}
}

func (a *App) handleNews(ctx context.Context, chatID int64, topic string) {
	log.Printf("user %d requested topic %q", chatID, topic)
	digest, err := a.news.Aggregate(ctx, topic)
	if err != nil {
		if errors.Is(err, service.ErrNoContent) {
			a.sendMessage(ctx, chatID, "❌ Nothing found for this topic, all sources are silent. 😔")
			return
		}
		log.Println("news:", err)
		return
	}
	a.sendMessage(ctx, chatID, service.FormatDigest(digest))
}

func (a *App) handleFeed(ctx context.Context, chatID int64, url string) {
	log.Printf("user %d requested feed %s", chatID, url)
	items, err := a.news.FetchSingle(ctx, url)
	if err != nil {
		a.sendMessage(ctx, chatID, "📡 Nothing found or the feed is empty.")
		return
	}
	a.sendMessage(ctx, chatID, service.FormatFeed(url, items))
}

func (a *App) handleRates(ctx context.Context, chatID int64) {
	rates, err := a.rates.Rates(ctx)
	if err != nil {
		log.Println("rates:", err)
		a.sendMessage(ctx, chatID, "📈 Couldn't fetch fresh rates.")
		return
	}
	a.sendMessage(ctx, chatID, a.rates.FormatRates(rates))
}

func (a *App) handleSpace(ctx context.Context, chatID int64) {
	articles, err := a.space.LatestNews(ctx)
	if err != nil {
		log.Println("space:", err)
		a.sendMessage(ctx, chatID, "🚀 No fresh space news right now.")
		return
	}
	a.sendMessage(ctx, chatID, a.space.FormatSpaceNews(articles))
}

func (a *App) handleHolidays(ctx context.Context, chatID int64, country string) {
	upcoming, err := a.calendar.Upcoming(ctx, country)
	if err != nil {
		log.Println("holidays:", err)
		a.sendMessage(ctx, chatID, "🗓 No holidays found.")
		return
	}
	a.sendMessage(ctx, chatID, a.calendar.FormatHolidays(upcoming))
}

// handleSubscribe parses "/subscribe <target> <HH:MM> [offset_hours]".
func (a *App) handleSubscribe(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		a.sendMessage(ctx, chatID, "Usage: /subscribe <topic> <HH:MM> [utc_offset_hours]")
		return
	}
	offsetSec := 0
	if len(args) > 2 {
		hours, err := strconv.Atoi(args[2])
		if err != nil || hours < -12 || hours > 14 {
			a.sendMessage(ctx, chatID, "❌ Offset must be whole hours, e.g. +3 or -5.")
			return
		}
		offsetSec = hours * 3600
	}
	sub, err := a.subs.Register(ctx, chatID, args[0], args[1], offsetSec)
	if err != nil {
		if errors.Is(err, service.ErrBadTime) {
			a.sendMessage(ctx, chatID, "❌ Bad time. Use HH:MM, e.g. 08:30.")
			return
		}
		log.Println("subscribe:", err)
		a.sendMessage(ctx, chatID, "❌ Couldn't save the subscription.")
		return
	}
	a.sendMessage(ctx, chatID, fmt.Sprintf(
		"🎉 Done! Daily <b>%s</b> digest at <b>%s</b>.", sub.Target, sub.Time))
}

func (a *App) handleUnsubscribe(ctx context.Context, chatID int64) {
	if err := a.subs.Unsubscribe(ctx, chatID); err != nil {
		log.Println("unsubscribe:", err)
		return
	}
	a.sendMessage(ctx, chatID, "✅ Daily digest disabled.")
}

// sendMessage logs delivery failures instead of propagating them.
func (a *App) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := a.tgClient.SendMessage(ctx, chatID, text, nil); err != nil {
		log.Printf("send to %d: %v", chatID, err)
	}
}

func (a *App) setCommands(ctx context.Context) {
	cmds := []telegram.BotCommand{
		{Command: "news", Description: "Topic digest"},
		{Command: "topics", Description: "List topics"},
		{Command: "feed", Description: "Read a feed by URL"},
		{Command: "rates", Description: "Currency rates"},
		{Command: "space", Description: "Space news"},
		{Command: "holidays", Description: "Upcoming holidays"},
		{Command: "subscribe", Description: "Daily digest at a local time"},
		{Command: "unsubscribe", Description: "Disable the daily digest"},
	}
	if err := a.tgClient.SetCommands(ctx, cmds); err != nil {
		log.Println("set commands:", err)
	}
}

const startMessage = `👋 <b>News Pulse</b>

/news [topic] — mixed digest for a topic
/topics — available topics
/feed &lt;url&gt; — read any RSS feed
/rates — currency rates
/space — space news
/holidays [CC] — upcoming public holidays
/subscribe &lt;topic&gt; &lt;HH:MM&gt; [utc_offset_hours] — daily digest
/unsubscribe — stop the daily digest`
