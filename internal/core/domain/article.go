package domain

import (
	"fmt"
	"time"
)

// Epoch is the timestamp an Article carries when the upstream date is missing or unparsable.
var Epoch = time.Unix(0, 0).UTC()

// Article is a news article as presented to callers.
// Missing upstream fields are normalized to empty strings and Epoch, never to nil.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
}

// HasImage reports whether the article carries an image URL.
func (a Article) HasImage() bool {
	return a.ImageURL != ""
}

// HasValidURL reports whether the article can be opened.
func (a Article) HasValidURL() bool {
	return a.URL != ""
}

// RelativeDate renders published relative to now in now's location:
// "Today", "Yesterday" or "N days ago". Dates in the future render as "Today".
func RelativeDate(published, now time.Time) string {
	loc := now.Location()
	p := published.In(loc)
	pDay := time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, loc)
	nDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	// Round instead of truncating so DST transitions don't drop a day.
	days := int(nDay.Sub(pDay).Round(24*time.Hour) / (24 * time.Hour))

	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
