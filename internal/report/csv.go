// Package report exports classification results for downstream renderers
// and reporters: CSV rows, a GeoJSON overlay, and a console summary.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/windprox-cli/internal/model"
)

var csvHeader = []string{"point_id", "lon", "lat", "distance_km", "band", "retained"}

// WriteCSV writes one row per result, in input order, retained or not.
func WriteCSV(w io.Writer, results []model.ProximityResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, r := range results {
		row := []string{
			r.PointID,
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.DistanceKM, 'f', 4, 64),
			string(r.Band),
			strconv.FormatBool(r.Retained),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "report: write csv row %s", r.PointID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteCSVFile writes the CSV export to a file path.
func WriteCSVFile(path string, results []model.ProximityResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	return WriteCSV(f, results)
}
