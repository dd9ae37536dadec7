// Package report exports health check results and groups problem feeds for display.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"rssdigest/domain"
)

var Columns = []string{"title", "url", "category", "status", "error", "article_count", "suggested_fix"}

// Row is one exported health result.
type Row struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	Error        string `json:"error"`
	ArticleCount int    `json:"article_count"`
	SuggestedFix string `json:"suggested_fix"`
}

// Rows lists healthy feeds first, then problem feeds, each in input order.
func Rows(results []domain.HealthResult) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		if r.Healthy {
			rows = append(rows, Row{
				Title:        r.Feed.Title,
				URL:          r.Feed.URL,
				Category:     r.Feed.Category,
				Status:       "healthy",
				ArticleCount: r.RecentArticleCount,
			})
		}
	}
	for _, r := range results {
		if !r.Healthy {
			rows = append(rows, Row{
				Title:        r.Feed.Title,
				URL:          r.Feed.URL,
				Category:     r.Feed.Category,
				Status:       "error",
				Error:        r.Message,
				SuggestedFix: r.SuggestedFixURL,
			})
		}
	}
	return rows
}

// Export writes results to path as JSON when it ends in .json, otherwise as CSV with .csv
// appended if missing. It returns the file written.
func Export(path string, results []domain.HealthResult) (string, error) {
	lower := strings.ToLower(path)
	isJSON := strings.HasSuffix(lower, ".json")
	if !isJSON && !strings.HasSuffix(lower, ".csv") {
		path += ".csv"
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	rows := Rows(results)
	if isJSON {
		err = WriteJSON(f, rows)
	} else {
		err = WriteCSV(f, rows)
	}
	if err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, f.Close()
}

func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Title, r.URL, r.Category, r.Status, r.Error, strconv.Itoa(r.ArticleCount), r.SuggestedFix}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Group is a set of problem feeds sharing a message prefix.
type Group struct {
	Kind    string
	Results []domain.HealthResult
}

// GroupProblems groups unhealthy results by the message text before the first ':',
// sorted by that prefix.
func GroupProblems(results []domain.HealthResult) []Group {
	byKind := make(map[string][]domain.HealthResult)
	for _, r := range results {
		if r.Healthy {
			continue
		}
		kind, _, _ := strings.Cut(r.Message, ":")
		byKind[kind] = append(byKind[kind], r)
	}
	groups := make([]Group, 0, len(byKind))
	for k, rs := range byKind {
		groups = append(groups, Group{Kind: k, Results: rs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Kind < groups[j].Kind })
	return groups
}

// Fixes maps the URL of each problem feed with a suggested fix to that fix.
func Fixes(results []domain.HealthResult) map[string]string {
	out := make(map[string]string)
	for _, r := range results {
		if !r.Healthy && r.SuggestedFixURL != "" {
			out[r.Feed.URL] = r.SuggestedFixURL
		}
	}
	return out
}
