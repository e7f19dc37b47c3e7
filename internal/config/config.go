package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/example/newspulse-bot/internal/model"
)

// DefaultTopic is the bucket used when a requested topic is unknown.
const DefaultTopic = "general"

// Config holds runtime configuration loaded from the environment.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	SubsPath      string
	FeedsFile     string

	// Topics maps a topic key to its ordered list of feed sources.
	// Fixed after FromEnv returns.
	Topics map[string][]model.FeedSource
	Labels map[string]string
}

// defaultTopics is the curated channel list the bot ships with. A custom
// table with the same JSON shape can be supplied via FEEDS_FILE.
var defaultTopics = map[string][]model.FeedSource{
	"general": {
		{Name: "Lenta.ru", URL: "https://lenta.ru/rss/news"},
		{Name: "TASS", URL: "https://tass.ru/rss/v2.xml"},
		{Name: "RIA", URL: "https://ria.ru/export/rss2/archive/index.xml"},
		{Name: "Interfax", URL: "https://www.interfax.ru/rss.asp"},
		{Name: "Rossiyskaya Gazeta", URL: "https://rg.ru/xml/index.xml"},
		{Name: "Regnum", URL: "https://regnum.ru/rss"},
		{Name: "Moskovsky Komsomolets", URL: "https://www.mk.ru/rss/index.xml"},
		{Name: "AiF", URL: "https://aif.ru/rss/news.php"},
		{Name: "TV Zvezda", URL: "https://tvzvezda.ru/export/rss.xml"},
	},
	"technology": {
		{Name: "Habr", URL: "https://habr.com/ru/rss/all/all/"},
		{Name: "3DNews", URL: "https://www.3dnews.ru/news/rss/"},
		{Name: "CNews", URL: "https://www.cnews.ru/inc/rss/news.xml"},
		{Name: "Rozetked", URL: "https://rozetked.me/turbo"},
		{Name: "Tproger", URL: "https://tproger.ru/feed/"},
	},
	"business": {
		{Name: "RBC", URL: "https://rssexport.rbc.ru/rbcnews/news/30/full.rss"},
		{Name: "Kommersant", URL: "https://www.kommersant.ru/RSS/news.xml"},
		{Name: "Vedomosti", URL: "https://www.vedomosti.ru/rss/news"},
	},
	"sports": {
		{Name: "Sports.ru", URL: "https://www.sports.ru/rss/all_news.xml"},
		{Name: "Sport-Express", URL: "https://www.sport-express.ru/services/materials/news/se/"},
	},
	"auto": {
		{Name: "Kolesa.ru", URL: "https://www.kolesa.ru/rss"},
	},
	"entertainment": {
		{Name: "Kino.mail", URL: "https://kino.mail.ru/rss"},
	},
	"science": {
		{Name: "Naked Science", URL: "https://naked-science.ru/feed/"},
	},
	"health": {
		{Name: "Lifehacker", URL: "https://lifehacker.ru/tag/zdorove/feed/"},
	},
}

var topicLabels = map[string]string{
	"general":       "🌍 Top stories",
	"technology":    "💻 Technology",
	"business":      "💰 Business",
	"sports":        "⚽ Sports",
	"auto":          "🚗 Auto",
	"entertainment": "🎬 Entertainment",
	"science":       "🧬 Science",
	"health":        "💊 Health",
}

// FromEnv loads configuration from environment variables. TELEGRAM_TOKEN
// is required. DATABASE_URL switches subscription persistence to
// Postgres; otherwise SUBS_FILE (default "subs.json") is used. FEEDS_FILE
// optionally replaces the built-in topic table.
func FromEnv() (*Config, error) {
	c := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SubsPath:      os.Getenv("SUBS_FILE"),
		FeedsFile:     os.Getenv("FEEDS_FILE"),
		Topics:        defaultTopics,
		Labels:        topicLabels,
	}
	if c.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_TOKEN is not set")
	}
	if c.SubsPath == "" {
		c.SubsPath = "subs.json"
	}
	if c.FeedsFile != "" {
		if err := c.loadFeeds(); err != nil {
			return nil, err
		}
	}
	if err := c.validateTopics(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) loadFeeds() error {
	file, err := os.Open(c.FeedsFile)
	if err != nil {
		return err
	}
	defer file.Close()
	topics := map[string][]model.FeedSource{}
	if err := json.NewDecoder(file).Decode(&topics); err != nil {
		return fmt.Errorf("config: parse %s: %w", c.FeedsFile, err)
	}
	c.Topics = topics
	return nil
}

// validateTopics is the only fatal path in the core: a broken source
// table is a startup misconfiguration, not a runtime condition.
func (c *Config) validateTopics() error {
	if _, ok := c.Topics[DefaultTopic]; !ok {
		return fmt.Errorf("config: topic %q must be defined", DefaultTopic)
	}
	for topic, sources := range c.Topics {
		if len(sources) == 0 {
			return fmt.Errorf("config: topic %q has no sources", topic)
		}
		for _, src := range sources {
			if src.Name == "" {
				return fmt.Errorf("config: topic %q has a source without a name", topic)
			}
			u, err := url.Parse(src.URL)
			if err != nil || !u.IsAbs() {
				return fmt.Errorf("config: topic %q source %q has invalid url %q", topic, src.Name, src.URL)
			}
		}
	}
	return nil
}
