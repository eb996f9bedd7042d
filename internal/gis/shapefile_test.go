package gis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/windprox-cli/internal/model"
)

const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

func writePointShapefile(t *testing.T, dir string, withPRJ bool) string {
	t.Helper()
	path := filepath.Join(dir, "turbines.shp")

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)

	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})
	points := []shp.Point{
		{X: 10.1, Y: 54.2},
		{X: 10.3, Y: 54.4},
	}
	for n := range points {
		w.Write(&points[n])
		w.WriteAttribute(n, 0, fmt.Sprintf("WTG-%d", n+1))
	}
	w.Close()

	if withPRJ {
		prj := strings.TrimSuffix(path, ".shp") + ".prj"
		require.NoError(t, os.WriteFile(prj, []byte(wgs84PRJ), 0o644))
	}
	return path
}

func writePolygonShapefile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "regions.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})

	// Two disjoint parts in a single record.
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{
			{X: 9.9, Y: 54.0}, {X: 9.9, Y: 54.1}, {X: 10.0, Y: 54.1},
			{X: 10.0, Y: 54.0}, {X: 9.9, Y: 54.0},
		},
		{
			{X: 10.5, Y: 54.0}, {X: 10.5, Y: 54.1}, {X: 10.6, Y: 54.1},
			{X: 10.6, Y: 54.0}, {X: 10.5, Y: 54.0},
		},
	}))
	w.Write(&poly)
	w.WriteAttribute(0, 0, "Kreis A")
	w.Close()

	prj := strings.TrimSuffix(path, ".shp") + ".prj"
	require.NoError(t, os.WriteFile(prj, []byte(wgs84PRJ), 0o644))
	return path
}

func TestLoadPointsShapefile(t *testing.T) {
	path := writePointShapefile(t, t.TempDir(), true)

	set, err := LoadPointsShapefile(path)
	require.NoError(t, err)

	assert.Equal(t, model.CRSWGS84, set.CRS)
	require.Len(t, set.Features, 2)
	assert.InDelta(t, 10.1, set.Features[0].Lon, 1e-9)
	assert.InDelta(t, 54.2, set.Features[0].Lat, 1e-9)
	assert.Equal(t, "WTG-1", set.Features[0].ID, "name attribute becomes the ID")
}

func TestLoadPointsShapefile_MissingPRJ(t *testing.T) {
	path := writePointShapefile(t, t.TempDir(), false)

	set, err := LoadPointsShapefile(path)
	require.NoError(t, err)
	assert.Equal(t, model.CRSUnknown, set.CRS, "no .prj means unknown CRS")
}

func TestLoadRegionsShapefile(t *testing.T) {
	path := writePolygonShapefile(t, t.TempDir())

	set, err := LoadRegionsShapefile(path)
	require.NoError(t, err)

	assert.Equal(t, model.CRSWGS84, set.CRS)
	require.Len(t, set.Features, 1)
	assert.Equal(t, "Kreis A", set.Features[0].Name)

	mp, ok := set.Features[0].Geom.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons(), "each part becomes its own polygon")
}

func TestLoadShapefile_MissingFile(t *testing.T) {
	_, err := LoadRegionsShapefile(filepath.Join(t.TempDir(), "nope.shp"))
	require.Error(t, err)
}

func TestLoadDispatch_Shapefile(t *testing.T) {
	path := writePointShapefile(t, t.TempDir(), true)

	set, err := LoadPoints(path)
	require.NoError(t, err)
	assert.Len(t, set.Features, 2)
}
