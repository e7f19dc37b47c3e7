package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/example/newspulse-bot/pkg/spaceflight"
)

// SpaceClient describes the part of the spaceflight client used here.
type SpaceClient interface {
	Latest(ctx context.Context, limit int) ([]spaceflight.Article, error)
}

const spaceNewsLimit = 5

// SpaceService serves the latest space news.
type SpaceService struct {
	client SpaceClient
}

func NewSpaceService(client SpaceClient) *SpaceService {
	return &SpaceService{client: client}
}

func (s *SpaceService) LatestNews(ctx context.Context) ([]spaceflight.Article, error) {
	articles, err := s.client.Latest(ctx, spaceNewsLimit)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNoContent
	}
	return articles, nil
}

// FormatSpaceNews renders articles as Telegram HTML, with long summaries
// clipped.
func (s *SpaceService) FormatSpaceNews(articles []spaceflight.Article) string {
	var b strings.Builder
	b.WriteString("🚀 <b>Space news</b>\n\n")
	for _, art := range articles {
		summary := art.Summary
		if r := []rune(summary); len(r) > 150 {
			summary = string(r[:147]) + "..."
		}
		fmt.Fprintf(&b, "🔹 <b>%s</b>\n", html.EscapeString(art.Title))
		fmt.Fprintf(&b, "<i>%s</i>\n", html.EscapeString(art.NewsSite))
		if summary != "" {
			fmt.Fprintf(&b, "%s\n", html.EscapeString(summary))
		}
		fmt.Fprintf(&b, "🔗 <a href='%s'>Read more</a>\n\n", art.URL)
	}
	b.WriteString("<i>Data by Spaceflight News API</i>")
	return b.String()
}
