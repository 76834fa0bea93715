package ml

import (
	"math"
	"sort"
)

// FeatureStats describes the contribution of one vocabulary indicator.
type FeatureStats struct {
	Name            string  `json:"name"`
	Coefficient     float64 `json:"coefficient"`
	ImportanceScore float64 `json:"importance_score"`
	OddsRatio       float64 `json:"odds_ratio"`
}

// FeatureImportance ranks indicators by the magnitude of their coefficient.
// Scores are normalized to sum to 1; ties keep vocabulary order.
func FeatureImportance(m *TrainedModel) []FeatureStats {
	if m == nil {
		return nil
	}

	total := 0.0
	for _, w := range m.Coefficients {
		total += math.Abs(w)
	}

	stats := make([]FeatureStats, len(m.Coefficients))
	for i, w := range m.Coefficients {
		name := ""
		if i < len(m.Features) {
			name = m.Features[i]
		}
		score := 0.0
		if total > 0 {
			score = math.Abs(w) / total
		}
		stats[i] = FeatureStats{
			Name:            name,
			Coefficient:     w,
			ImportanceScore: score,
			OddsRatio:       math.Exp(w),
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ImportanceScore > stats[j].ImportanceScore
	})
	return stats
}
