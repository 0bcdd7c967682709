package pipeline

import "github.com/goydb/goyreport/pkg/model"

// Aggregator counts records per bucket in a single pass.
type Aggregator struct {
	counts  map[model.BucketKey]int64
	order   []model.BucketKey
	total   int
	skipped int
}

// NewAggregator seeds every label with a zero count. With nil
// labels buckets are added in the order they are first seen.
func NewAggregator(labels []model.BucketKey) *Aggregator {
	a := &Aggregator{
		counts: make(map[model.BucketKey]int64, len(labels)),
		order:  make([]model.BucketKey, 0, len(labels)),
	}
	for _, l := range labels {
		if _, ok := a.counts[l]; ok {
			continue
		}
		a.counts[l] = 0
		a.order = append(a.order, l)
	}
	return a
}

func (a *Aggregator) Add(key model.BucketKey) {
	a.total++
	if _, ok := a.counts[key]; !ok {
		a.order = append(a.order, key)
	}
	a.counts[key]++
}

// Skip counts a record that couldn't be assigned.
func (a *Aggregator) Skip() {
	a.total++
	a.skipped++
}

func (a *Aggregator) Result() model.AggregationResult {
	counts := make(map[model.BucketKey]int64, len(a.counts))
	for k, v := range a.counts {
		counts[k] = v
	}
	return model.AggregationResult{
		Counts:  counts,
		Order:   append([]model.BucketKey(nil), a.order...),
		Total:   a.total,
		Skipped: a.skipped,
	}
}
