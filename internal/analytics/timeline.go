package analytics

import (
	"slices"

	"leadtracker/internal/domain"
)

const DefaultTimelineLimit = 10

// ActivityTimeline returns the limit most recent activities, newest first.
// Activities with equal timestamps keep their input order. A non-positive
// limit falls back to DefaultTimelineLimit.
func ActivityTimeline(acts []domain.Activity, limit int) []domain.Activity {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}

	sorted := make([]domain.Activity, len(acts))
	copy(sorted, acts)
	slices.SortStableFunc(sorted, func(a, b domain.Activity) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
