package analytics

import "leadtracker/internal/domain"

// Bucket is one bar of a distribution chart.
type Bucket[K comparable] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// Distribution is an ordered, enumeration-complete count per key.
type Distribution[K comparable] []Bucket[K]

// Get returns the count for k, or 0 when k is not part of the distribution.
func (d Distribution[K]) Get(k K) int {
	for _, b := range d {
		if b.Key == k {
			return b.Count
		}
	}
	return 0
}

func (d Distribution[K]) Total() int {
	n := 0
	for _, b := range d {
		n += b.Count
	}
	return n
}

func distribution[K comparable](keys []K, leads []domain.Lead, keyOf func(domain.Lead) K) Distribution[K] {
	idx := make(map[K]int, len(keys))
	out := make(Distribution[K], len(keys))
	for i, k := range keys {
		out[i] = Bucket[K]{Key: k}
		idx[k] = i
	}
	for _, l := range leads {
		if i, ok := idx[keyOf(l)]; ok {
			out[i].Count++
		}
	}
	return out
}

// GroupByStage counts leads per stage in canonical stage order. Every stage
// is present, zero when no lead holds it.
func GroupByStage(leads []domain.Lead) Distribution[domain.Stage] {
	return distribution(domain.Stages, leads, func(l domain.Lead) domain.Stage { return l.Stage })
}

// GroupBySource counts leads per source in canonical source order.
func GroupBySource(leads []domain.Lead) Distribution[domain.LeadSource] {
	return distribution(domain.Sources, leads, func(l domain.Lead) domain.LeadSource { return l.Source })
}

// Summary is the dashboard header: headline metrics plus both distributions.
type Summary struct {
	Metrics Metrics                         `json:"metrics"`
	Stages  Distribution[domain.Stage]      `json:"stages"`
	Sources Distribution[domain.LeadSource] `json:"sources"`
}

func Summarize(leads []domain.Lead) Summary {
	return Summary{
		Metrics: CalculateMetrics(leads),
		Stages:  GroupByStage(leads),
		Sources: GroupBySource(leads),
	}
}
