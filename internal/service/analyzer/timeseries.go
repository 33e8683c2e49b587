package analyzer

import (
	"sort"

	"github.com/weibolens/weibolens/internal/domain/model"
)

// AggregateTimeSeries buckets posts by calendar date in the source
// timezone and returns the buckets in ascending date order. Posts with
// unparsable timestamps are excluded. Missing days are not zero-filled;
// gap handling is a presentation concern of the consumer.
func AggregateTimeSeries(posts []*model.Post) []model.TimeBucket {
	counts := make(map[string]int)
	for _, p := range posts {
		if !p.TimeValid {
			continue
		}
		counts[p.CreatedAt.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	series := make([]model.TimeBucket, 0, len(dates))
	for _, d := range dates {
		series = append(series, model.TimeBucket{Date: d, Count: counts[d]})
	}
	return series
}
