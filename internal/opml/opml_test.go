package opml

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rssdigest/domain"
)

func loadTestdata(t *testing.T) *Directory {
	t.Helper()
	d, err := Load(filepath.Join("testdata", "feeds.xml"))
	require.NoError(t, err)
	return d
}

func TestParseFeedsAndCategories(t *testing.T) {
	d := loadTestdata(t)

	assert.Equal(t, []domain.Feed{
		{URL: "https://news.ycombinator.com/rss", Title: "Hacker News", Category: "01 Tech News"},
		{URL: "https://feeds.arstechnica.com/arstechnica/index", Title: "Ars Technica", Category: "01 Tech News"},
		{URL: "http://newsrss.bbc.co.uk/rss/newsonline_world_edition/front_page/rss.xml", Title: "BBC World", Category: "World"},
		{URL: "http://rss.dw-world.de/rdf/rss-en-all", Title: "DW News", Category: "Europe"},
		{URL: "https://loose.example/rss", Title: "Loose Feed"},
	}, d.Feeds())

	assert.Equal(t, []string{"01 Tech News", "Europe", "World"}, d.Categories())
	assert.Len(t, d.FeedsByCategory("01 Tech News"), 2)
	assert.Empty(t, d.FeedsByCategory("Empty Folder"))
}

func TestParseRejectsBrokenXML(t *testing.T) {
	_, err := Parse(bytes.NewBufferString("<opml><body><outline"))
	assert.Error(t, err)
}

func TestApplyFixesAndSave(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "feeds.xml"))
	require.NoError(t, err)
	dir := t.TempDir()
	path := filepath.Join(dir, "all_feeds_20240101_000000.xml")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	n := d.ApplyFixes(map[string]string{
		"http://newsrss.bbc.co.uk/rss/newsonline_world_edition/front_page/rss.xml": "http://feeds.bbci.co.uk/rss/newsonline_world_edition/front_page/rss.xml",
	})
	assert.Equal(t, 1, n)

	saved, err := d.Save("20240102_030405")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "all_feeds_20240102_030405.xml"), saved)
	assert.FileExists(t, filepath.Join(dir, "archived_feeds_20240101_000000.xml"))
	assert.NoFileExists(t, path)

	reloaded, err := Load(saved)
	require.NoError(t, err)
	assert.Equal(t, "http://feeds.bbci.co.uk/rss/newsonline_world_edition/front_page/rss.xml", reloaded.Feeds()[2].URL)
	assert.Equal(t, d.Categories(), reloaded.Categories())
	assert.Len(t, reloaded.Feeds(), 5)
}

func TestRemoveFeeds(t *testing.T) {
	d := loadTestdata(t)
	n := d.RemoveFeeds(map[string]struct{}{
		"DW News":                   {},
		"https://loose.example/rss": {},
	})
	assert.Equal(t, 2, n)
	assert.Len(t, d.Feeds(), 3)
	assert.NotContains(t, d.Categories(), "Europe")

	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf))
	assert.NotContains(t, buf.String(), "rss.dw-world.de")
	assert.Contains(t, buf.String(), "Hacker News")
}
