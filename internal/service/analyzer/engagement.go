package analyzer

import (
	"sort"

	"github.com/weibolens/weibolens/internal/domain/model"
)

// Metric names one of the three engagement counters on a post.
type Metric string

const (
	MetricAttitudes Metric = "attitudes"
	MetricComments  Metric = "comments"
	MetricReposts   Metric = "reposts"
)

func metricValue(p *model.Post, metric Metric) int {
	switch metric {
	case MetricAttitudes:
		return p.AttitudesCount
	case MetricComments:
		return p.CommentsCount
	case MetricReposts:
		return p.RepostsCount
	}
	return 0
}

// RankByMetric returns at most k posts sorted descending by the metric.
// The sort is stable, so ties keep their original crawl order. An empty
// corpus yields an empty result, never an error.
func RankByMetric(posts []*model.Post, metric Metric, k int) []model.Post {
	ranked := make([]*model.Post, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metricValue(ranked[i], metric) > metricValue(ranked[j], metric)
	})

	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]model.Post, 0, len(ranked))
	for _, p := range ranked {
		out = append(out, *p)
	}
	return out
}
