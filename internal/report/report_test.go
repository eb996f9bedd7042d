package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/windprox-cli/internal/model"
)

func sampleResults() []model.ProximityResult {
	return []model.ProximityResult{
		{PointID: "t1", Lon: 10.1, Lat: 54.2, DistanceKM: 1.25, Band: model.BandNear, Retained: true},
		{PointID: "t2", Lon: 10.3, Lat: 54.4, DistanceKM: 3.5, Band: model.BandModerate, Retained: true},
		{PointID: "t3", Lon: 10.9, Lat: 54.9, DistanceKM: 8.75, Band: model.BandExcluded, Retained: false},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus one row per result")

	assert.Equal(t, []string{"point_id", "lon", "lat", "distance_km", "band", "retained"}, rows[0])
	assert.Equal(t, []string{"t1", "10.1", "54.2", "1.2500", "near", "true"}, rows[1])
	assert.Equal(t, "false", rows[3][5], "excluded rows are exported, not dropped")
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteCSVFile(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "t2,10.3,54.4,3.5000,moderate,true")
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, sampleResults()))

	var fc geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	require.Len(t, fc.Features, 3)

	f := fc.Features[0]
	assert.Equal(t, "t1", f.ID)
	assert.Equal(t, "near", f.Properties["band"])
	assert.InDelta(t, 1.25, f.Properties["distance_km"].(float64), 1e-9)
	assert.Equal(t, true, f.Properties["retained"])
}

func TestPrintSummary(t *testing.T) {
	mean, min, max := 2.375, 1.25, 3.5
	summary := model.SummaryStatistics{Count: 2, MeanKM: &mean, MinKM: &min, MaxKM: &max}

	var buf bytes.Buffer
	PrintSummary(&buf, sampleResults(), summary)

	out := buf.String()
	assert.Contains(t, out, "Points classified:  3")
	assert.Contains(t, out, "near:             1")
	assert.Contains(t, out, "Retained (within threshold): 2")
	assert.Contains(t, out, "mean distance:    2.375 km")
}

func TestPrintSummary_EmptySubset(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, nil, model.SummaryStatistics{})

	out := buf.String()
	assert.Contains(t, out, "Retained (within threshold): 0")
	assert.Contains(t, out, "mean distance:    n/a")
	assert.Contains(t, out, "min distance:     n/a")
	assert.Contains(t, out, "max distance:     n/a")
}
