package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rssdigest/domain"
)

func sampleResults() []domain.HealthResult {
	return []domain.HealthResult{
		{Feed: domain.Feed{Title: "Broken", URL: "https://broken.example/rss", Category: "Tech"},
			Message: "HTTP Error 404: Not Found", Outcome: domain.OutcomeHTTPStatus},
		{Feed: domain.Feed{Title: "Good", URL: "https://good.example/rss", Category: "Tech"},
			Healthy: true, Message: "OK", RecentArticleCount: 7, Outcome: domain.OutcomeHealthy},
		{Feed: domain.Feed{Title: "BBC", URL: "http://newsrss.bbc.co.uk/rss.xml"},
			Message: "URL needs update: http://newsrss.bbc.co.uk/rss.xml → http://feeds.bbci.co.uk/rss.xml",
			SuggestedFixURL: "http://feeds.bbci.co.uk/rss.xml", Outcome: domain.OutcomeNeedsFix},
		{Feed: domain.Feed{Title: "Gone", URL: "https://gone.example/rss"},
			Message: "HTTP Error 410: Gone", Outcome: domain.OutcomeHTTPStatus},
	}
}

func TestRowsOrderHealthyFirst(t *testing.T) {
	rows := Rows(sampleResults())
	require.Len(t, rows, 4)
	assert.Equal(t, Row{Title: "Good", URL: "https://good.example/rss", Category: "Tech", Status: "healthy", ArticleCount: 7}, rows[0])
	assert.Equal(t, "error", rows[1].Status)
	assert.Equal(t, "Broken", rows[1].Title)
	assert.Zero(t, rows[1].ArticleCount)
	assert.Equal(t, "http://feeds.bbci.co.uk/rss.xml", rows[2].SuggestedFix)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Rows(sampleResults())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"title", "url", "category", "status", "error", "article_count", "suggested_fix"}, records[0])
	assert.Equal(t, []string{"Good", "https://good.example/rss", "Tech", "healthy", "", "7", ""}, records[1])
}

func TestExportPicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath, err := Export(filepath.Join(dir, "health.json"), sampleResults())
	require.NoError(t, err)
	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var rows []Row
	require.NoError(t, json.Unmarshal(raw, &rows))
	assert.Len(t, rows, 4)

	csvPath, err := Export(filepath.Join(dir, "health"), sampleResults())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "health.csv"), csvPath)
	assert.FileExists(t, csvPath)

	same, err := Export(filepath.Join(dir, "report.CSV"), sampleResults())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.CSV"), same)
}

func TestGroupProblems(t *testing.T) {
	groups := GroupProblems(sampleResults())
	require.Len(t, groups, 3)
	assert.Equal(t, "HTTP Error 404", groups[0].Kind)
	assert.Equal(t, "HTTP Error 410", groups[1].Kind)
	assert.Equal(t, "URL needs update", groups[2].Kind)

	groups = GroupProblems([]domain.HealthResult{
		{Message: "Timeout - feed took too long to respond"},
		{Message: "Connection Error: refused"},
		{Message: "Connection Error: reset"},
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "Connection Error", groups[0].Kind)
	assert.Len(t, groups[0].Results, 2)
	assert.Equal(t, "Timeout - feed took too long to respond", groups[1].Kind)
}

func TestFixes(t *testing.T) {
	assert.Equal(t, map[string]string{
		"http://newsrss.bbc.co.uk/rss.xml": "http://feeds.bbci.co.uk/rss.xml",
	}, Fixes(sampleResults()))
}
