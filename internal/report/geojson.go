package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/windprox-cli/internal/model"
)

// WriteGeoJSON emits a FeatureCollection of result points in their original
// geographic coordinates, one feature per input point, carrying the band and
// distance as properties so a map renderer can color-code markers.
func WriteGeoJSON(w io.Writer, results []model.ProximityResult) error {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(results)),
	}
	for _, r := range results {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       r.PointID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{r.Lon, r.Lat}),
			Properties: map[string]interface{}{
				"distance_km": r.DistanceKM,
				"band":        string(r.Band),
				"retained":    r.Retained,
			},
		})
	}

	data, err := json.MarshalIndent(&fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal geojson")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "report: write geojson")
	}
	return nil
}

// WriteGeoJSONFile writes the GeoJSON export to a file path.
func WriteGeoJSONFile(path string, results []model.ProximityResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	return WriteGeoJSON(f, results)
}
