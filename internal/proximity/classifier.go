package proximity

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/umahmood/haversine"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/windprox-cli/internal/model"
	"github.com/sells-group/windprox-cli/internal/proj"
)

// Method selects how point-to-centroid distances are measured.
type Method string

const (
	// MethodPlanar projects both datasets to a shared UTM zone and measures
	// Euclidean distance in meters. The default.
	MethodPlanar Method = "planar"
	// MethodHaversine measures great-circle distance on the sphere without
	// projecting. Used as a cross-check of the planar path.
	MethodHaversine Method = "haversine"
)

// Options configures a Classifier. Zero values fall back to defaults.
type Options struct {
	ThresholdKM float64 // retain points with distance <= ThresholdKM (default 5)
	NearBandKM  float64 // "near" band upper bound, exclusive (default 2)
	Method      Method  // distance method (default planar)
	UTMZone     int     // planar method: force a UTM zone; 0 derives it from the data
	UseIndex    bool    // planar method: nearest-neighbor R-tree over centroids
	Workers     int     // parallel distance workers; <=1 runs sequentially
}

// Classifier computes nearest-centroid distances, bands, and summary
// statistics. It is a pure function of its inputs: no state survives a call
// and identical inputs produce identical outputs.
type Classifier struct {
	opts Options
}

// New validates options and returns a Classifier.
func New(opts Options) (*Classifier, error) {
	if opts.ThresholdKM == 0 {
		opts.ThresholdKM = DefaultThresholdKM
	}
	if opts.NearBandKM == 0 {
		opts.NearBandKM = DefaultNearBandKM
	}
	if opts.Method == "" {
		opts.Method = MethodPlanar
	}

	if opts.ThresholdKM < 0 {
		return nil, NewConfigError(eris.Errorf("proximity: threshold %.3f km must be positive", opts.ThresholdKM))
	}
	if opts.NearBandKM < 0 || opts.NearBandKM >= opts.ThresholdKM {
		return nil, NewConfigError(eris.Errorf(
			"proximity: near band %.3f km must be positive and below threshold %.3f km",
			opts.NearBandKM, opts.ThresholdKM))
	}
	switch opts.Method {
	case MethodPlanar, MethodHaversine:
	default:
		return nil, NewConfigError(eris.Errorf("proximity: unknown method %q", opts.Method))
	}
	if opts.UTMZone != 0 && (opts.UTMZone < 1 || opts.UTMZone > 60) {
		return nil, NewConfigError(eris.Errorf("proximity: invalid UTM zone %d", opts.UTMZone))
	}

	return &Classifier{opts: opts}, nil
}

// Options returns the effective (default-filled) options.
func (c *Classifier) Options() Options { return c.opts }

// centroid is one exploded region part reduced to its center position.
// X/Y are planar meters for MethodPlanar, lon/lat degrees for MethodHaversine.
type centroid struct {
	regionID string
	x, y     float64
}

// Classify computes one ProximityResult per input point plus summary
// statistics over the retained (distance <= threshold) subset.
//
// Every point yields exactly one result; the threshold never drops points
// from the result slice, it only marks them excluded.
func (c *Classifier) Classify(points model.PointSet, regions model.RegionSet) ([]model.ProximityResult, model.SummaryStatistics, error) {
	if len(regions.Features) == 0 {
		return nil, model.SummaryStatistics{}, NewPreconditionError(
			eris.New("proximity: empty region set, no centroid reference exists"))
	}
	if err := c.checkCRS(points.CRS, regions.CRS); err != nil {
		return nil, model.SummaryStatistics{}, err
	}
	if len(points.Features) == 0 {
		return []model.ProximityResult{}, model.SummaryStatistics{}, nil
	}

	var projector *proj.UTM
	if c.opts.Method == MethodPlanar && points.CRS.IsGeographic() {
		var err error
		projector, err = c.projector(points)
		if err != nil {
			return nil, model.SummaryStatistics{}, err
		}
	}

	centroids, err := deriveCentroids(regions, projector)
	if err != nil {
		return nil, model.SummaryStatistics{}, err
	}

	nearest := c.nearestFunc(centroids)

	results := make([]model.ProximityResult, len(points.Features))
	compute := func(i int) {
		p := points.Features[i]
		var distKM float64
		switch {
		case c.opts.Method == MethodHaversine:
			distKM = nearestHaversineKM(p.Lon, p.Lat, centroids)
		case projector != nil:
			x, y := projector.Forward(p.Lon, p.Lat)
			distKM = nearest(x, y)
		default:
			// Inputs already planar: coordinates are meters.
			distKM = nearest(p.Lon, p.Lat)
		}
		results[i] = model.ProximityResult{
			PointID:    p.ID,
			Lon:        p.Lon,
			Lat:        p.Lat,
			DistanceKM: distKM,
			Band:       ClassifyBand(distKM, c.opts.NearBandKM, c.opts.ThresholdKM),
			Retained:   distKM <= c.opts.ThresholdKM,
		}
	}

	if c.opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(c.opts.Workers)
		for i := range points.Features {
			g.Go(func() error {
				compute(i)
				return nil
			})
		}
		// Workers never return errors; Wait only joins them.
		_ = g.Wait()
	} else {
		for i := range points.Features {
			compute(i)
		}
	}

	summary := Summarize(results)
	zap.L().Debug("proximity: classified points",
		zap.Int("points", len(results)),
		zap.Int("centroids", len(centroids)),
		zap.Int("retained", summary.Count),
	)

	return results, summary, nil
}

// checkCRS enforces that both inputs declare the same usable source system.
func (c *Classifier) checkCRS(pts, regs model.CRS) error {
	if pts == model.CRSUnknown || regs == model.CRSUnknown {
		return NewConfigError(eris.Errorf(
			"proximity: undefined source CRS (points %s, regions %s)", pts, regs))
	}
	if pts != regs {
		return NewConfigError(eris.Errorf(
			"proximity: mismatched source CRS: points %s, regions %s", pts, regs))
	}
	if c.opts.Method == MethodHaversine && !pts.IsGeographic() {
		return NewConfigError(eris.Errorf(
			"proximity: haversine method requires geographic coordinates, got %s", pts))
	}
	return nil
}

// projector picks the UTM zone from options or from the dataset's mean position.
func (c *Classifier) projector(points model.PointSet) (*proj.UTM, error) {
	var sumLon, sumLat float64
	for _, p := range points.Features {
		sumLon += p.Lon
		sumLat += p.Lat
	}
	meanLat := sumLat / float64(len(points.Features))

	if c.opts.UTMZone != 0 {
		return proj.NewUTM(c.opts.UTMZone, meanLat >= 0)
	}
	return proj.ForZone(sumLon/float64(len(points.Features)), meanLat), nil
}

// deriveCentroids explodes every region into single-part polygons and
// computes one centroid per part. Projecting happens before centroiding so
// planar centroids are area-weighted in meter space.
func deriveCentroids(regions model.RegionSet, projector *proj.UTM) ([]centroid, error) {
	var centroids []centroid
	for _, r := range regions.Features {
		parts, err := explode(r.Geom)
		if err != nil {
			return nil, NewPreconditionError(eris.Wrapf(err, "proximity: region %s", r.ID))
		}
		for _, part := range parts {
			if projector != nil {
				part = projectPolygon(projector, part)
			}
			x, y := polygonCentroid(part)
			centroids = append(centroids, centroid{regionID: r.ID, x: x, y: y})
		}
	}
	return centroids, nil
}

// explode splits a region geometry into its single-part polygons.
func explode(g geom.T) ([]*geom.Polygon, error) {
	switch g := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{g}, nil
	case *geom.MultiPolygon:
		parts := make([]*geom.Polygon, 0, g.NumPolygons())
		for i := 0; i < g.NumPolygons(); i++ {
			parts = append(parts, g.Polygon(i))
		}
		return parts, nil
	case nil:
		return nil, eris.New("nil geometry")
	default:
		return nil, eris.Errorf("unsupported region geometry %T", g)
	}
}

// projectPolygon maps every vertex through the projector, preserving ring
// structure. Returns a new polygon; the input is never mutated.
func projectPolygon(projector *proj.UTM, p *geom.Polygon) *geom.Polygon {
	flat := append([]float64(nil), p.FlatCoords()...)
	stride := p.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		flat[i], flat[i+1] = projector.Forward(flat[i], flat[i+1])
	}
	ends := append([]int(nil), p.Ends()...)
	return geom.NewPolygonFlat(p.Layout(), flat, ends)
}

// polygonCentroid returns the area-weighted centroid. Degenerate zero-area
// polygons fall back to the mean of the exterior ring's vertices so every
// region still yields a well-defined reference point.
func polygonCentroid(p *geom.Polygon) (x, y float64) {
	c, err := xy.Centroid(p)
	if err == nil && isFinite(c[0]) && isFinite(c[1]) {
		return c[0], c[1]
	}
	return ringVertexMean(p.LinearRing(0))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ringVertexMean averages the ring's vertices, ignoring the closing vertex
// when it repeats the first.
func ringVertexMean(ring *geom.LinearRing) (x, y float64) {
	flat := ring.FlatCoords()
	stride := ring.Stride()
	n := len(flat) / stride
	if n == 0 {
		return 0, 0
	}
	if n > 1 && flat[0] == flat[(n-1)*stride] && flat[1] == flat[(n-1)*stride+1] {
		n--
	}
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += flat[i*stride]
		sy += flat[i*stride+1]
	}
	return sx / float64(n), sy / float64(n)
}

// nearestFunc returns the planar nearest-centroid distance function,
// brute force or R-tree backed. Both produce identical distances.
func (c *Classifier) nearestFunc(centroids []centroid) func(x, y float64) float64 {
	if c.opts.Method == MethodPlanar && c.opts.UseIndex && len(centroids) >= indexMinCentroids {
		idx := newCentroidIndex(centroids)
		return idx.nearestKM
	}
	return func(x, y float64) float64 {
		return nearestBruteKM(x, y, centroids)
	}
}

// nearestBruteKM scans all centroids and keeps the minimum Euclidean
// distance, converted from meters to kilometers. Ties resolve to the first
// centroid in iteration order, which is stable for identical inputs.
func nearestBruteKM(x, y float64, centroids []centroid) float64 {
	minMeters := math.Inf(1)
	for _, ct := range centroids {
		if d := math.Hypot(ct.x-x, ct.y-y); d < minMeters {
			minMeters = d
		}
	}
	return minMeters / 1000
}

// nearestHaversineKM keeps the minimum great-circle distance to any centroid.
func nearestHaversineKM(lon, lat float64, centroids []centroid) float64 {
	minKM := math.Inf(1)
	from := haversine.Coord{Lat: lat, Lon: lon}
	for _, ct := range centroids {
		_, km := haversine.Distance(from, haversine.Coord{Lat: ct.y, Lon: ct.x})
		if km < minKM {
			minKM = km
		}
	}
	return minKM
}

// Summarize aggregates count, mean, min, and max over the retained subset.
// An empty subset reports count zero with absent mean/min/max.
func Summarize(results []model.ProximityResult) model.SummaryStatistics {
	var (
		count    int
		sum      float64
		min, max float64
	)
	for _, r := range results {
		if !r.Retained {
			continue
		}
		if count == 0 {
			min, max = r.DistanceKM, r.DistanceKM
		} else {
			if r.DistanceKM < min {
				min = r.DistanceKM
			}
			if r.DistanceKM > max {
				max = r.DistanceKM
			}
		}
		sum += r.DistanceKM
		count++
	}

	if count == 0 {
		return model.SummaryStatistics{}
	}
	mean := sum / float64(count)
	return model.SummaryStatistics{
		Count:  count,
		MeanKM: &mean,
		MinKM:  &min,
		MaxKM:  &max,
	}
}
