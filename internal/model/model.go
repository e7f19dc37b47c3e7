package model

import "time"

// FeedSource describes one upstream feed inside a topic. The source table
// is built at startup and never mutated afterwards.
type FeedSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ContentItem is a single normalized entry produced by one feed fetch.
// Items live only for the duration of the aggregation call that produced
// them; nothing persists them.
type ContentItem struct {
	Title      string
	Link       string
	Published  time.Time
	SourceName string
}

// Digest is the merged result for one topic: deduplicated by normalized
// title, ordered freshest-first, capped.
type Digest struct {
	Topic string
	Label string
	Items []ContentItem
}

// Subscription schedules one delivery per day at the user's local time.
// Time is "HH:MM" in the user's wall clock; TZOffsetSec is the offset
// from UTC in seconds.
type Subscription struct {
	UserID      int64  `json:"user_id"`
	Target      string `json:"target"`
	Time        string `json:"time"`
	TZOffsetSec int    `json:"tz_offset_sec"`
}
