package model

// Band is the categorical distance classification for a point.
type Band string

const (
	BandNear     Band = "near"     // distance < near-band threshold
	BandModerate Band = "moderate" // near-band threshold <= distance <= retain threshold
	BandExcluded Band = "excluded" // distance > retain threshold
)

// ProximityResult holds the per-point outcome of the classifier.
// Every input point produces exactly one result; filtering happens in the
// summary and export stages, never here.
type ProximityResult struct {
	PointID    string  `json:"point_id"`
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
	DistanceKM float64 `json:"distance_km"`
	Band       Band    `json:"band"`
	Retained   bool    `json:"retained"`
}

// SummaryStatistics aggregates the retained subset (distance <= threshold).
// Mean/Min/Max are nil when Count is zero; a zero value would be
// indistinguishable from a genuine zero-distance result.
type SummaryStatistics struct {
	Count  int      `json:"count"`
	MeanKM *float64 `json:"mean_km,omitempty"`
	MinKM  *float64 `json:"min_km,omitempty"`
	MaxKM  *float64 `json:"max_km,omitempty"`
}

// BandCounts tallies results per band over the full result set.
func BandCounts(results []ProximityResult) map[Band]int {
	counts := make(map[Band]int, 3)
	for _, r := range results {
		counts[r.Band]++
	}
	return counts
}
