package rss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func feedXML(items int, skipDateAt int) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>test feed</title>`)
	for i := 0; i < items; i++ {
		fmt.Fprintf(&sb, `<item><title>item %d</title><link>http://example.com/%d</link>`, i, i)
		if i != skipDateAt {
			fmt.Fprintf(&sb, `<pubDate>Mon, 02 Jan 2006 15:%02d:05 +0000</pubDate>`, i)
		}
		sb.WriteString(`</item>`)
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

func TestClient_Fetch_CapsAndDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, feedXML(12, 3))
	}))
	defer srv.Close()

	items, err := NewClient().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("expected the per-fetch cap of 10, got %d", len(items))
	}
	if items[0].Published.IsZero() {
		t.Fatalf("expected a parsed date on the first item")
	}
	if !items[3].Published.IsZero() {
		t.Fatalf("item without pubDate must keep the zero time, got %v", items[3].Published)
	}
	if items[0].Title != "item 0" || items[0].Link != "http://example.com/0" {
		t.Fatalf("unexpected first item: %#v", items[0])
	}
}

func TestClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a non-success status")
	}
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "this is not a feed")
	}))
	defer srv.Close()

	if _, err := NewClient().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a malformed document")
	}
}
