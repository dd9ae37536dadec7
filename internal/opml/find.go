package opml

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"rssdigest/domain"
)

// FuzzyCutoff is the minimum similarity for a close match.
const FuzzyCutoff = 0.6

// FindCategory resolves a user-typed category: exact (case-insensitive), then substring,
// prefix or match after a leading number, then the closest name by similarity.
func (d *Directory) FindCategory(term string) (string, bool) {
	if term == "" {
		return "", false
	}
	cats := d.Categories()
	lower := strings.ToLower(term)
	for _, c := range cats {
		if strings.ToLower(c) == lower {
			return c, true
		}
	}

	var matches []string
	for _, c := range cats {
		cl := strings.ToLower(c)
		switch {
		case strings.Contains(cl, lower), strings.HasPrefix(cl, lower):
			matches = append(matches, c)
		default:
			if _, rest, ok := strings.Cut(cl, " "); ok && strings.Contains(rest, lower) {
				matches = append(matches, c)
			}
		}
	}
	if len(matches) > 0 {
		for _, m := range matches {
			for _, w := range strings.Fields(strings.ToLower(m)) {
				if w == lower {
					return m, true
				}
			}
		}
		return matches[0], true
	}

	if best := CloseMatches(term, cats, 1, FuzzyCutoff); len(best) > 0 {
		return best[0], true
	}
	return "", false
}

// SuggestCategories returns up to three loosely similar category names.
func (d *Directory) SuggestCategories(term string) []string {
	return CloseMatches(term, d.Categories(), 3, 0.4)
}

// FindFeeds resolves a user-typed feed title: exact title, then every title containing the
// term, then up to five close matches.
func (d *Directory) FindFeeds(term string) []domain.Feed {
	if term == "" {
		return nil
	}
	lower := strings.ToLower(term)
	for _, f := range d.feeds {
		if strings.ToLower(f.Title) == lower {
			return []domain.Feed{f}
		}
	}

	var out []domain.Feed
	for _, f := range d.feeds {
		if strings.Contains(strings.ToLower(f.Title), lower) {
			out = append(out, f)
		}
	}
	if len(out) > 0 {
		return out
	}

	titles := make([]string, 0, len(d.feeds))
	for _, f := range d.feeds {
		titles = append(titles, f.Title)
	}
	nearest := make(map[string]struct{})
	for _, t := range CloseMatches(term, titles, 5, FuzzyCutoff) {
		nearest[t] = struct{}{}
	}
	for _, f := range d.feeds {
		if _, ok := nearest[f.Title]; ok {
			out = append(out, f)
		}
	}
	return out
}

// CloseMatches returns at most n candidates whose similarity to word is at least cutoff,
// best first.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		s     string
		score float64
	}
	w := strings.Split(word, "")
	var hits []scored
	for _, c := range candidates {
		m := difflib.NewMatcher(strings.Split(c, ""), w)
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			hits = append(hits, scored{s: c, score: r})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].s > hits[j].s
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.s
	}
	return out
}
