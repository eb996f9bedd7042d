// Package model defines the domain types shared across the proximity pipeline.
package model

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// CRS identifies a coordinate reference system by EPSG code.
// Zero means the source system is unknown, which the classifier rejects.
type CRS int

const (
	CRSUnknown CRS = 0
	CRSWGS84   CRS = 4326
)

// String returns the EPSG-prefixed form, e.g. "EPSG:4326".
func (c CRS) String() string {
	if c == CRSUnknown {
		return "unknown"
	}
	return fmt.Sprintf("EPSG:%d", int(c))
}

// IsGeographic reports whether the CRS is degree-based.
func (c CRS) IsGeographic() bool {
	return c == CRSWGS84
}

// PointFeature is a single turbine (or other point of interest) in
// geographic coordinates. Immutable once loaded.
type PointFeature struct {
	ID   string
	Lon  float64
	Lat  float64
	Tags map[string]string
}

// RegionFeature is an administrative boundary in geographic coordinates.
// Geom is a Polygon or MultiPolygon; multi-part geometries are exploded
// into independent parts before centroid derivation.
type RegionFeature struct {
	ID   string
	Name string
	Geom geom.T
	Tags map[string]string
}

// PointSet is an ordered point dataset together with its declared CRS.
type PointSet struct {
	CRS      CRS
	Features []PointFeature
}

// RegionSet is an ordered region dataset together with its declared CRS.
type RegionSet struct {
	CRS      CRS
	Features []RegionFeature
}
