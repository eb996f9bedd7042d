package gis

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/windprox-cli/internal/model"
)

// LoadPointsShapefile reads a Point shapefile. The CRS comes from the
// sidecar .prj file; a missing or unrecognized projection yields
// CRSUnknown, which the classifier rejects downstream.
func LoadPointsShapefile(path string) (model.PointSet, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return model.PointSet{}, eris.Wrapf(err, "gis: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldNames(reader)
	set := model.PointSet{CRS: readPRJ(path)}

	var skipped, i int
	for reader.Next() {
		_, shape := reader.Shape()
		pt, ok := shape.(*shp.Point)
		if !ok {
			skipped++
			i++
			continue
		}
		tags := attributeTags(reader, fields)
		set.Features = append(set.Features, model.PointFeature{
			ID:   recordID(tags, "point", i),
			Lon:  pt.X,
			Lat:  pt.Y,
			Tags: tags,
		})
		i++
	}
	if skipped > 0 {
		zap.L().Debug("gis: skipped non-point shapefile records",
			zap.String("path", path), zap.Int("skipped", skipped))
	}
	return set, nil
}

// LoadRegionsShapefile reads a Polygon shapefile. Multi-ring shapes become
// MultiPolygons; the classifier explodes them before centroiding.
func LoadRegionsShapefile(path string) (model.RegionSet, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return model.RegionSet{}, eris.Wrapf(err, "gis: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldNames(reader)
	set := model.RegionSet{CRS: readPRJ(path)}

	var skipped, i int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			i++
			continue
		}
		g := polygonToMultiPolygon(poly)
		if g == nil {
			skipped++
			i++
			continue
		}
		tags := attributeTags(reader, fields)
		set.Features = append(set.Features, model.RegionFeature{
			ID:   recordID(tags, "region", i),
			Name: tags["name"],
			Geom: g,
			Tags: tags,
		})
		i++
	}
	if skipped > 0 {
		zap.L().Debug("gis: skipped unusable shapefile records",
			zap.String("path", path), zap.Int("skipped", skipped))
	}
	return set, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon,
// one single-ring polygon per part.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("gis: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("gis: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// fieldNames returns the lower-cased DBF field names in column order.
func fieldNames(reader *shp.Reader) []string {
	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.ToLower(strings.TrimRight(f.String(), "\x00"))
	}
	return names
}

// attributeTags reads the current record's DBF attributes into a tag map.
func attributeTags(reader *shp.Reader, fields []string) map[string]string {
	tags := make(map[string]string, len(fields))
	for i, name := range fields {
		val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
		if val != "" {
			tags[name] = val
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func recordID(tags map[string]string, kind string, idx int) string {
	for _, key := range []string{"id", "geoid", "name"} {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return fmt.Sprintf("%s-%d", kind, idx)
}

// wgs84Markers identify a WGS84 geographic system in WKT .prj text.
var wgs84Markers = []string{"GCS_WGS_1984", "WGS 84", "WGS_1984", "EPSG\",4326"}

// readPRJ inspects the sidecar .prj beside a .shp file. Only geographic
// WGS84 is recognized; anything else reports CRSUnknown so the classifier
// fails loudly instead of measuring degrees as meters.
func readPRJ(shpPath string) model.CRS {
	prjPath := strings.TrimSuffix(shpPath, ".shp") + ".prj"
	data, err := os.ReadFile(prjPath)
	if err != nil {
		zap.L().Debug("gis: no .prj sidecar", zap.String("path", prjPath))
		return model.CRSUnknown
	}
	wkt := string(data)
	for _, marker := range wgs84Markers {
		if strings.Contains(wkt, marker) {
			return model.CRSWGS84
		}
	}
	return model.CRSUnknown
}
