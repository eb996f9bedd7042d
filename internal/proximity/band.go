// Package proximity classifies point features by distance to the nearest
// region centroid and aggregates summary statistics over the retained set.
package proximity

import "github.com/sells-group/windprox-cli/internal/model"

// Default distance thresholds (kilometers).
const (
	DefaultThresholdKM = 5.0
	DefaultNearBandKM  = 2.0
)

// ClassifyBand returns the band for a nearest-centroid distance.
// Rules:
//   - near: distance < nearBandKM
//   - moderate: nearBandKM <= distance <= thresholdKM
//   - excluded: distance > thresholdKM
//
// Both boundary points are deliberate: a point exactly at thresholdKM is
// retained, a point exactly at nearBandKM is moderate.
func ClassifyBand(distanceKM, nearBandKM, thresholdKM float64) model.Band {
	if distanceKM > thresholdKM {
		return model.BandExcluded
	}
	if distanceKM < nearBandKM {
		return model.BandNear
	}
	return model.BandModerate
}
