package gis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/windprox-cli/internal/model"
)

const pointsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"id": "t1",
			"geometry": {"type": "Point", "coordinates": [10.1, 54.2]},
			"properties": {"name": "Turbine 1", "power:mw": "2.5"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [10.3, 54.4]},
			"properties": {"name": "Turbine 2"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
			"properties": {"name": "not a point"}
		}
	]
}`

const regionsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[9.9, 54.0], [9.9, 54.1], [10.0, 54.1], [10.0, 54.0], [9.9, 54.0]]]},
			"properties": {"name": "Kreis A"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "MultiPolygon", "coordinates": [
				[[[10.2, 54.0], [10.2, 54.1], [10.3, 54.1], [10.3, 54.0], [10.2, 54.0]]],
				[[[10.5, 54.0], [10.5, 54.1], [10.6, 54.1], [10.6, 54.0], [10.5, 54.0]]]
			]},
			"properties": {"name": "Kreis B"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [10.0, 54.0]},
			"properties": {"name": "not a polygon"}
		}
	]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPointsGeoJSON(t *testing.T) {
	path := writeTemp(t, "turbines.geojson", pointsGeoJSON)

	set, err := LoadPointsGeoJSON(path)
	require.NoError(t, err)

	assert.Equal(t, model.CRSWGS84, set.CRS)
	require.Len(t, set.Features, 2, "non-point features are skipped")

	assert.Equal(t, "t1", set.Features[0].ID)
	assert.InDelta(t, 10.1, set.Features[0].Lon, 1e-12)
	assert.InDelta(t, 54.2, set.Features[0].Lat, 1e-12)
	assert.Equal(t, "Turbine 1", set.Features[0].Tags["name"])
	assert.Equal(t, "2.5", set.Features[0].Tags["power:mw"])

	// No explicit id falls back to the name property.
	assert.Equal(t, "Turbine 2", set.Features[1].ID)
}

func TestLoadRegionsGeoJSON(t *testing.T) {
	path := writeTemp(t, "regions.geojson", regionsGeoJSON)

	set, err := LoadRegionsGeoJSON(path)
	require.NoError(t, err)

	assert.Equal(t, model.CRSWGS84, set.CRS)
	require.Len(t, set.Features, 2, "non-polygon features are skipped")

	assert.Equal(t, "Kreis A", set.Features[0].Name)
	_, isPoly := set.Features[0].Geom.(*geom.Polygon)
	assert.True(t, isPoly)

	mp, isMulti := set.Features[1].Geom.(*geom.MultiPolygon)
	require.True(t, isMulti)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestLoadGeoJSON_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPointsGeoJSON(filepath.Join(t.TempDir(), "nope.geojson"))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeTemp(t, "broken.geojson", `{"type": "FeatureCollection",`)
		_, err := LoadRegionsGeoJSON(path)
		require.Error(t, err)
	})
}

func TestLoadDispatch(t *testing.T) {
	path := writeTemp(t, "turbines.json", pointsGeoJSON)

	set, err := LoadPoints(path)
	require.NoError(t, err)
	assert.Len(t, set.Features, 2)
}
