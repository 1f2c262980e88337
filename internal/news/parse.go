package news

import (
	"regexp"
	"strings"
	"time"

	"hottakes/internal/models"
)

// descriptionRuneLimit caps the length of a filler description.
const descriptionRuneLimit = 120

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

	// Image extraction fallback chain, tried in order. Feed descriptions
	// embed images in several shapes depending on the publisher.
	imgSrcPattern         = regexp.MustCompile(`<img[^>]+src="([^"]+)"`)
	enclosureURLPattern   = regexp.MustCompile(`enclosure[^>]+url="([^"]+)"`)
	mediaContentPattern   = regexp.MustCompile(`<media:content[^>]+url="([^"]+)"`)
	mediaThumbnailPattern = regexp.MustCompile(`<media:thumbnail[^>]+url="([^"]+)"`)
	bareImageURLPattern   = regexp.MustCompile(`https://[^"\s]+\.(?:jpg|jpeg|png)`)
)

// adaptItem converts one raw proxy item into the feed's filler shape.
func adaptItem(raw proxyItem) models.NewsItem {
	item := models.NewsItem{
		Title:       raw.Title,
		Description: truncateDescription(stripHTML(raw.Description)),
		ImageURL:    extractImageURL(raw),
		Link:        raw.Link,
	}
	if t, err := time.Parse("2006-01-02 15:04:05", raw.PubDate); err == nil {
		item.PublishedAt = t
	} else if t, err := time.Parse(time.RFC1123Z, raw.PubDate); err == nil {
		item.PublishedAt = t
	}
	return item
}

// stripHTML removes markup from an RSS description.
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// truncateDescription limits a description to 120 runes with an ellipsis.
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionRuneLimit {
		return s
	}
	return string(runes[:descriptionRuneLimit]) + "..."
}

// extractImageURL walks the fallback chain: structured fields first, then
// markup patterns inside the description.
func extractImageURL(raw proxyItem) string {
	if raw.Thumbnail != "" {
		return raw.Thumbnail
	}
	if raw.Enclosure.URL != "" {
		return raw.Enclosure.URL
	}

	for _, pattern := range []*regexp.Regexp{
		imgSrcPattern,
		enclosureURLPattern,
		mediaContentPattern,
		mediaThumbnailPattern,
	} {
		if m := pattern.FindStringSubmatch(raw.Description); m != nil {
			return m[1]
		}
	}
	if m := bareImageURLPattern.FindString(raw.Description); m != "" {
		return m
	}
	return ""
}
