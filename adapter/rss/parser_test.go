package rss

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>Example</title>
  <link>https://example.com/</link>
  <item>
    <title>First story</title>
    <link>https://example.com/1</link>
    <description>&lt;p&gt;Short &lt;b&gt;summary&lt;/b&gt;&lt;/p&gt;</description>
    <content:encoded><![CDATA[<p>Full body</p>]]></content:encoded>
    <pubDate>Mon, 15 Jan 2024 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Second story</title>
    <link>https://example.com/2</link>
  </item>
</channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom example</title>
  <entry>
    <title>Atom entry</title>
    <link href="https://example.org/a"/>
    <id>urn:a</id>
    <updated>2024-01-15T10:00:00Z</updated>
    <content type="html">&lt;p&gt;Body&lt;/p&gt;</content>
  </entry>
</feed>`

func TestParseWellFormedRSS(t *testing.T) {
	p := Parse([]byte(sampleRSS))
	require.True(t, p.WellFormed())
	require.NoError(t, p.Err)

	entries := Entries(p.Feed)
	require.Len(t, entries, 2)
	e := entries[0]
	assert.Equal(t, "First story", e.Title)
	assert.Equal(t, "https://example.com/1", e.Link)
	assert.Equal(t, "<p>Short <b>summary</b></p>", e.Summary)
	assert.Equal(t, []string{"<p>Full body</p>"}, e.Content)
	require.NotNil(t, e.PublishedParsed)
	assert.Equal(t, 10, e.PublishedParsed.UTC().Hour())
	assert.Nil(t, entries[1].PublishedParsed)
}

func TestParseAtom(t *testing.T) {
	p := Parse([]byte(sampleAtom))
	require.True(t, p.WellFormed())

	entries := Entries(p.Feed)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.org/a", entries[0].Link)
	assert.NotNil(t, entries[0].UpdatedParsed)
	assert.Equal(t, []string{"<p>Body</p>"}, entries[0].Content)
}

func TestParseRecoversFromIllegalCharacters(t *testing.T) {
	payload := `<?xml version="1.0"?><rss version="2.0"><channel><title>Broken</title>
<item><title>Bad` + "\x01" + ` title</title><link>https://example.com/x</link></item>
</channel></rss>`

	p := Parse([]byte(payload))
	assert.False(t, p.WellFormed())
	var pe *ParseError
	require.True(t, errors.As(p.Err, &pe))

	entries := Entries(p.Feed)
	require.Len(t, entries, 1)
	assert.Equal(t, "Bad title", entries[0].Title)
}

func TestParseGarbage(t *testing.T) {
	p := Parse([]byte("this is not a feed"))
	assert.False(t, p.WellFormed())
	assert.Equal(t, KindParse, Classify(p.Err))
	require.NotNil(t, p.Feed)
	assert.Empty(t, p.Feed.Items)
}

func TestFeedRoundTrip(t *testing.T) {
	p := Parse([]byte(sampleRSS))
	require.True(t, p.WellFormed())

	data, err := EncodeFeed(p.Feed)
	require.NoError(t, err)
	restored, err := DecodeFeed(data)
	require.NoError(t, err)

	assert.Equal(t, Entries(p.Feed)[0].Title, Entries(restored)[0].Title)
	assert.Equal(t, Entries(p.Feed)[0].PublishedParsed.Unix(), Entries(restored)[0].PublishedParsed.Unix())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a &amp; b &amp;c &amp; &#38; &lt;", sanitize("a & b &c & &#38; &lt;"))
	assert.Equal(t, "ab\n", sanitize("a\x01b\n"))
}
