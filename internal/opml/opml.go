// Package opml reads the feed directory: an OPML document whose rss outlines are feeds and
// whose other outlines are categories.
package opml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"rssdigest/domain"
)

type document struct {
	XMLName xml.Name   `xml:"opml"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Head    rawXML     `xml:"head"`
	Body    outline    `xml:"body"`
}

type rawXML struct {
	Inner []byte `xml:",innerxml"`
}

type outline struct {
	Attrs    []xml.Attr `xml:",any,attr"`
	Outlines []*outline `xml:"outline"`
}

func (o *outline) attr(name string) string {
	for _, a := range o.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (o *outline) setAttr(name, value string) {
	for i, a := range o.Attrs {
		if a.Name.Local == name {
			o.Attrs[i].Value = value
			return
		}
	}
	o.Attrs = append(o.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (o *outline) isFeed() bool { return o.attr("type") == "rss" }

// Directory is a parsed OPML feed list.
type Directory struct {
	Path string

	doc        *document
	feeds      []domain.Feed
	categories map[string][]domain.Feed
}

// Load parses the OPML file at path.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open opml %s: %w", path, err)
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse opml %s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

func Parse(r io.Reader) (*Directory, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	d := &Directory{doc: &doc}
	d.index()
	return d, nil
}

func (d *Directory) index() {
	d.feeds = nil
	d.categories = make(map[string][]domain.Feed)
	d.walk(&d.doc.Body, "")
}

func (d *Directory) walk(parent *outline, category string) {
	for _, child := range parent.Outlines {
		if !child.isFeed() {
			name := child.attr("text")
			if name == "" {
				name = child.attr("title")
			}
			d.walk(child, name)
			continue
		}
		f := domain.Feed{
			URL:      child.attr("xmlUrl"),
			Title:    child.attr("title"),
			Category: category,
		}
		d.feeds = append(d.feeds, f)
		if category != "" {
			d.categories[category] = append(d.categories[category], f)
		}
	}
}

// Feeds returns every feed in document order.
func (d *Directory) Feeds() []domain.Feed { return d.feeds }

// Categories returns the category names that hold at least one feed, sorted.
func (d *Directory) Categories() []string {
	out := make([]string, 0, len(d.categories))
	for c := range d.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (d *Directory) FeedsByCategory(category string) []domain.Feed {
	return d.categories[category]
}

// ApplyFixes rewrites the xmlUrl of every feed whose current URL is a key of fixes.
func (d *Directory) ApplyFixes(fixes map[string]string) int {
	n := 0
	var fix func(*outline)
	fix = func(parent *outline) {
		for _, child := range parent.Outlines {
			if !child.isFeed() {
				fix(child)
				continue
			}
			if to, ok := fixes[child.attr("xmlUrl")]; ok && to != "" {
				child.setAttr("xmlUrl", to)
				n++
			}
		}
	}
	fix(&d.doc.Body)
	d.index()
	return n
}

// RemoveFeeds drops every feed whose title or URL is in keys.
func (d *Directory) RemoveFeeds(keys map[string]struct{}) int {
	n := 0
	var prune func(*outline)
	prune = func(parent *outline) {
		kept := parent.Outlines[:0]
		for _, child := range parent.Outlines {
			if !child.isFeed() {
				prune(child)
				kept = append(kept, child)
				continue
			}
			_, byTitle := keys[child.attr("title")]
			_, byURL := keys[child.attr("xmlUrl")]
			if byTitle || byURL {
				n++
				continue
			}
			kept = append(kept, child)
		}
		parent.Outlines = kept
	}
	prune(&d.doc.Body)
	d.index()
	return n
}

// Encode writes the directory back as indented OPML.
func (d *Directory) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d.doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Save publishes the directory as a new all_feeds file next to its source and returns the
// new path.
func (d *Directory) Save(stamp string) (string, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return "", fmt.Errorf("encode opml: %w", err)
	}
	dir := "."
	if d.Path != "" {
		dir = filepath.Dir(d.Path)
	}
	path, err := Publish(dir, buf.Bytes(), stamp)
	if err != nil {
		return "", err
	}
	d.Path = path
	return path, nil
}
