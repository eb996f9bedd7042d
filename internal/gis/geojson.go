// Package gis loads point and region datasets from GeoJSON and shapefile
// sources into ordered feature slices with a declared CRS.
package gis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/windprox-cli/internal/model"
)

// LoadPoints reads a point dataset, dispatching on file extension.
func LoadPoints(path string) (model.PointSet, error) {
	if isShapefile(path) {
		return LoadPointsShapefile(path)
	}
	return LoadPointsGeoJSON(path)
}

// LoadRegions reads a polygon dataset, dispatching on file extension.
func LoadRegions(path string) (model.RegionSet, error) {
	if isShapefile(path) {
		return LoadRegionsShapefile(path)
	}
	return LoadRegionsGeoJSON(path)
}

func isShapefile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".shp")
}

// LoadPointsGeoJSON reads a GeoJSON FeatureCollection of Points.
// RFC 7946 fixes the CRS of GeoJSON to WGS84, so the set is always
// reported as EPSG:4326. Feature order is preserved.
func LoadPointsGeoJSON(path string) (model.PointSet, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return model.PointSet{}, err
	}

	set := model.PointSet{CRS: model.CRSWGS84, Features: make([]model.PointFeature, 0, len(fc.Features))}
	var skipped int
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(*geom.Point)
		if !ok {
			skipped++
			continue
		}
		set.Features = append(set.Features, model.PointFeature{
			ID:   featureID(f, "point", i),
			Lon:  pt.X(),
			Lat:  pt.Y(),
			Tags: stringTags(f.Properties),
		})
	}
	if skipped > 0 {
		zap.L().Debug("gis: skipped non-point features", zap.String("path", path), zap.Int("skipped", skipped))
	}
	return set, nil
}

// LoadRegionsGeoJSON reads a GeoJSON FeatureCollection of Polygons or
// MultiPolygons. Feature order is preserved.
func LoadRegionsGeoJSON(path string) (model.RegionSet, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return model.RegionSet{}, err
	}

	set := model.RegionSet{CRS: model.CRSWGS84, Features: make([]model.RegionFeature, 0, len(fc.Features))}
	var skipped int
	for i, f := range fc.Features {
		switch f.Geometry.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		default:
			skipped++
			continue
		}
		tags := stringTags(f.Properties)
		set.Features = append(set.Features, model.RegionFeature{
			ID:   featureID(f, "region", i),
			Name: tags["name"],
			Geom: f.Geometry,
			Tags: tags,
		})
	}
	if skipped > 0 {
		zap.L().Debug("gis: skipped non-polygon features", zap.String("path", path), zap.Int("skipped", skipped))
	}
	return set, nil
}

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gis: read %s", path)
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "gis: parse GeoJSON %s", path)
	}
	return &fc, nil
}

// featureID prefers the feature's own id, then an "id" or "name" property,
// then a positional fallback.
func featureID(f *geojson.Feature, kind string, idx int) string {
	if f.ID != "" {
		return f.ID
	}
	if f.Properties != nil {
		for _, key := range []string{"id", "name"} {
			if v, ok := f.Properties[key]; ok {
				if s := propString(v); s != "" {
					return s
				}
			}
		}
	}
	return fmt.Sprintf("%s-%d", kind, idx)
}

// stringTags flattens GeoJSON properties to string values, lower-casing keys.
func stringTags(props map[string]interface{}) map[string]string {
	if len(props) == 0 {
		return nil
	}
	tags := make(map[string]string, len(props))
	for k, v := range props {
		if s := propString(v); s != "" {
			tags[strings.ToLower(k)] = s
		}
	}
	return tags
}

func propString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return ""
	}
}
