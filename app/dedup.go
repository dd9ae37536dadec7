package app

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"

	"rssdigest/domain"
	"rssdigest/internal/metrics"
)

// SimilarityThreshold is the title ratio at or above which two articles are the same story.
const SimilarityThreshold = 0.85

type candidate struct {
	article domain.Article
	chars   []string
	removed bool
}

// Dedupe drops repeated links, then collapses articles whose titles are near-identical
// within groups sharing the same first three title words. A newcomer is compared with
// its matches in group order: each match with a shorter summary is discarded, and the
// first match with an equal or longer summary discards the newcomer.
func Dedupe(logger *slog.Logger, articles []domain.Article) []domain.Article {
	if len(articles) == 0 {
		return articles
	}

	duplicates := 0
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.Link]; ok {
			duplicates++
			continue
		}
		seen[a.Link] = struct{}{}
		unique = append(unique, a)
	}

	groups := make(map[string][]*candidate)
	ordered := make([]*candidate, 0, len(unique))
	for _, a := range unique {
		key := groupKey(a.Title)
		c := &candidate{article: a, chars: strings.Split(normalizeTitle(a.Title), "")}

		var matches []*candidate
		for _, existing := range groups[key] {
			if similarity(c.chars, existing.chars) >= SimilarityThreshold {
				matches = append(matches, existing)
			}
		}
		if len(matches) == 0 {
			groups[key] = append(groups[key], c)
			ordered = append(ordered, c)
			continue
		}

		kept := true
		for _, m := range matches {
			if !longerSummary(c, m) {
				kept = false
				break
			}
			m.removed = true
			duplicates++
		}
		groups[key] = live(groups[key])
		if !kept {
			duplicates++
			continue
		}
		groups[key] = append(groups[key], c)
		ordered = append(ordered, c)
	}

	out := make([]domain.Article, 0, len(ordered))
	for _, c := range ordered {
		if !c.removed {
			out = append(out, c.article)
		}
	}

	if duplicates > 0 && logger != nil {
		logger.Info("removed duplicate articles", "count", duplicates)
	}
	metrics.RecordDuplicates(duplicates)
	return out
}

// longerSummary reports whether c's summary is strictly longer than m's.
func longerSummary(c, m *candidate) bool {
	return utf8.RuneCountInString(c.article.Summary) > utf8.RuneCountInString(m.article.Summary)
}

func live(cs []*candidate) []*candidate {
	out := cs[:0]
	for _, c := range cs {
		if !c.removed {
			out = append(out, c)
		}
	}
	return out
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// groupKey is the first three whitespace-separated words of the lowercased title.
func groupKey(title string) string {
	words := strings.Fields(normalizeTitle(title))
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// similarity is difflib's Ratcliff/Obershelp ratio over the characters of a and b.
func similarity(a, b []string) float64 {
	return difflib.NewMatcher(a, b).Ratio()
}

// TitleSimilarity compares two titles the way Dedupe does.
func TitleSimilarity(a, b string) float64 {
	return similarity(strings.Split(normalizeTitle(a), ""), strings.Split(normalizeTitle(b), ""))
}
