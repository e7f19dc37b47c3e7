package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/newspulse-bot/pkg/spaceflight"
)

type fakeSpaceClient struct {
	articles []spaceflight.Article
	err      error
}

var _ SpaceClient = (*fakeSpaceClient)(nil)

func (c *fakeSpaceClient) Latest(ctx context.Context, limit int) ([]spaceflight.Article, error) {
	if c.err != nil {
		return nil, c.err
	}
	if len(c.articles) > limit {
		return c.articles[:limit], nil
	}
	return c.articles, nil
}

func TestSpaceService_LatestNews_Empty(t *testing.T) {
	svc := NewSpaceService(&fakeSpaceClient{})
	if _, err := svc.LatestNews(context.Background()); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestSpaceService_FormatSpaceNews_ClipsSummary(t *testing.T) {
	long := strings.Repeat("x", 200)
	svc := NewSpaceService(&fakeSpaceClient{})
	out := svc.FormatSpaceNews([]spaceflight.Article{
		{Title: "Launch", URL: "http://s/1", Summary: long, NewsSite: "SpaceWire"},
	})
	if strings.Contains(out, long) {
		t.Fatalf("summary not clipped")
	}
	if !strings.Contains(out, strings.Repeat("x", 147)+"...") {
		t.Fatalf("clipped summary missing: %q", out)
	}
	if !strings.Contains(out, "SpaceWire") {
		t.Fatalf("source missing: %q", out)
	}
}
