package rss

import (
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is the normalized shape of one feed item. Sources fill whatever they carry;
// every field is optional.
type Entry struct {
	Title       string
	Link        string
	Summary     string
	Description string
	Content     []string

	PublishedParsed *time.Time
	UpdatedParsed   *time.Time
	CreatedParsed   *time.Time

	Published string
	Updated   string
	Created   string
	PubDate   string
}

// Entries normalizes every item of feed.
func Entries(feed *gofeed.Feed) []Entry {
	if feed == nil {
		return nil
	}
	out := make([]Entry, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		out = append(out, entryFromItem(it))
	}
	return out
}

func entryFromItem(it *gofeed.Item) Entry {
	e := Entry{
		Title:           it.Title,
		Link:            it.Link,
		Summary:         it.Description,
		PublishedParsed: it.PublishedParsed,
		UpdatedParsed:   it.UpdatedParsed,
		Published:       it.Published,
		Updated:         it.Updated,
	}
	if e.Link == "" && len(it.Links) > 0 {
		e.Link = it.Links[0]
	}
	if it.DublinCoreExt != nil && len(it.DublinCoreExt.Description) > 0 {
		e.Description = it.DublinCoreExt.Description[0]
	}
	if it.Content != "" {
		e.Content = []string{it.Content}
	}
	e.Created = extensionValue(it, "dcterms", "created")
	if it.Custom != nil {
		e.PubDate = it.Custom["pubDate"]
	}
	return e
}

func extensionValue(it *gofeed.Item, prefix, name string) string {
	if it.Extensions == nil {
		return ""
	}
	byName, ok := it.Extensions[prefix]
	if !ok {
		return ""
	}
	if vals := byName[name]; len(vals) > 0 {
		return vals[0].Value
	}
	return ""
}
