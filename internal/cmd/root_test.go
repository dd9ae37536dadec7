package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rssdigest/adapter/cache"
	"rssdigest/internal/opml"
)

const testOPML = `<?xml version="1.0"?>
<opml version="1.0"><head/><body>
  <outline text="Tech">
    <outline type="rss" title="Hacker News" xmlUrl="https://news.ycombinator.com/rss"/>
    <outline type="rss" title="Lobsters" xmlUrl="https://lobste.rs/rss"/>
  </outline>
  <outline text="World">
    <outline type="rss" title="World News" xmlUrl="https://world.example/rss"/>
  </outline>
</body></opml>`

func TestRootRegistersCommands(t *testing.T) {
	root := Root()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{
		"fetch", "health", "categories", "feeds", "organize",
		"serve", "set-interval", "set-workers", "articles",
	}, names)
}

func TestSessionSetupAppliesFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	s := &session{opmlPath: "feeds.xml", logLevel: "debug", workers: 3}
	require.NoError(t, s.setup())
	assert.Equal(t, "feeds.xml", s.cfg.OPMLPath)
	assert.Equal(t, "debug", s.cfg.LogLevel)
	assert.Equal(t, 3, s.cfg.Workers)
	assert.NotNil(t, s.logger)
	assert.NoError(t, s.closeLog())
}

func TestDirectoryAutoDetect(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	s := &session{}
	require.NoError(t, s.setup())

	_, err := s.directory()
	assert.ErrorIs(t, err, errNoDirectory)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "all_feeds_20240101_000000.xml"), []byte(testOPML), 0o644))
	d, err := s.directory()
	require.NoError(t, err)
	assert.Len(t, d.Feeds(), 3)
}

func TestSelectFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.xml")
	require.NoError(t, os.WriteFile(path, []byte(testOPML), 0o644))
	d, err := opml.Load(path)
	require.NoError(t, err)
	s := &session{}

	all, err := s.selectFeeds(d, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tech, err := s.selectFeeds(d, "", "tech")
	require.NoError(t, err)
	assert.Len(t, tech, 2)

	one, err := s.selectFeeds(d, "lobsters", "")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "https://lobste.rs/rss", one[0].URL)

	_, err = s.selectFeeds(d, "", "gardening")
	assert.Error(t, err)
	_, err = s.selectFeeds(d, "qqqq", "")
	assert.Error(t, err)
}

func TestOpenCacheBackends(t *testing.T) {
	s := &session{}
	s.cfg.CacheDir = filepath.Join(t.TempDir(), "c")

	store, purger, closeStore, err := s.openCache(context.Background())
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &cache.FileStore{}, store)
	assert.Nil(t, purger)

	s.cfg.CacheBackend = "none"
	store, _, _, err = s.openCache(context.Background())
	require.NoError(t, err)
	assert.Nil(t, store)

	s.cfg.CacheBackend = "redis"
	_, _, _, err = s.openCache(context.Background())
	assert.Error(t, err)
}
