package helpers

import (
	"sort"
)

// CountStatistic is one label with its number of occurrences
type CountStatistic struct {
	Label string
	Count int
}

// CalculateTopCounts returns the top N most frequent labels
// If limit is 0 or negative, returns all labels
func CalculateTopCounts(frequency map[string]int, limit int) []CountStatistic {
	stats := convertFrequencyMapToStatistics(frequency)
	sortStatisticsByFrequency(stats)

	if shouldLimitResults(limit, len(stats)) {
		return stats[:limit]
	}
	return stats
}

// convertFrequencyMapToStatistics converts a map to a slice of CountStatistic
func convertFrequencyMapToStatistics(frequency map[string]int) []CountStatistic {
	stats := make([]CountStatistic, 0, len(frequency))
	for label, count := range frequency {
		stats = append(stats, CountStatistic{
			Label: label,
			Count: count,
		})
	}
	return stats
}

// sortStatisticsByFrequency sorts statistics by count (descending) then by label (ascending)
func sortStatisticsByFrequency(stats []CountStatistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Label < stats[j].Label
		}
		return stats[i].Count > stats[j].Count
	})
}

// shouldLimitResults checks if we should limit the results based on the limit and actual length
func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, totalCount int) float64 {
	if totalCount == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(totalCount) * 100.0
}
