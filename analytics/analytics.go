// Package analytics provides the traffic overview shown on the dashboard:
// a static series of period points plus simple aggregates over the feed.
package analytics

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Point is one period of the traffic chart.
type Point struct {
	Name     string `json:"name" yaml:"name"`
	Views    int    `json:"views" yaml:"views"`
	Visitors int    `json:"visitors" yaml:"visitors"`
}

// Entry is the part of a post the aggregates look at.
type Entry struct {
	Author string
	Views  int
}

// Summary holds the dashboard cards.
type Summary struct {
	TotalPosts int    `json:"total_posts"`
	TotalViews int    `json:"total_views"`
	TopAuthor  string `json:"top_author"`
}

// Validate checks that no counter is negative.
func Validate(points []Point) error {
	for _, p := range points {
		if p.Views < 0 || p.Visitors < 0 {
			return fmt.Errorf("point %q: counters must not be negative", p.Name)
		}
	}
	return nil
}

// Summarize counts entries, sums their views and picks the author with the
// most entries. Ties go to the author seen first.
func Summarize(entries []Entry) Summary {
	s := Summary{TotalPosts: len(entries)}
	counts := make(map[string]int, len(entries))
	var order []string
	for _, e := range entries {
		s.TotalViews += e.Views
		if e.Author == "" {
			continue
		}
		if counts[e.Author] == 0 {
			order = append(order, e.Author)
		}
		counts[e.Author]++
	}
	best := 0
	for _, author := range order {
		if counts[author] > best {
			best = counts[author]
			s.TopAuthor = author
		}
	}
	return s
}

// Totals sums views and visitors over the series.
func Totals(points []Point) (views, visitors int) {
	for _, p := range points {
		views += p.Views
		visitors += p.Visitors
	}
	return views, visitors
}

// Peak returns the point with the most views. ok is false for an empty
// series.
func Peak(points []Point) (peak Point, ok bool) {
	for i, p := range points {
		if i == 0 || p.Views > peak.Views {
			peak = p
			ok = true
		}
	}
	return peak, ok
}

// FormatCount renders n with thousands separators, e.g. 5,530.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
