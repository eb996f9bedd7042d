package proximity

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// indexMinCentroids is the point at which an R-tree starts paying for its
// construction cost; below it brute force wins.
const indexMinCentroids = 64

// rectEpsilon gives centroid entries a tiny non-degenerate bounding box,
// which rtreego requires. Nearest-neighbor distances to such a box match
// the point distance to within the epsilon.
const rectEpsilon = 1e-9

// centroidItem adapts a centroid to the rtreego Spatial interface.
type centroidItem struct {
	rect *rtreego.Rect
	x, y float64
}

func (c *centroidItem) Bounds() rtreego.Rect {
	return *c.rect
}

// centroidIndex is an R-tree over planar centroids.
type centroidIndex struct {
	tree *rtreego.Rtree
}

func newCentroidIndex(centroids []centroid) *centroidIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, ct := range centroids {
		rect, err := rtreego.NewRect(rtreego.Point{ct.x, ct.y}, []float64{rectEpsilon, rectEpsilon})
		if err != nil {
			continue
		}
		tree.Insert(&centroidItem{rect: &rect, x: ct.x, y: ct.y})
	}
	return &centroidIndex{tree: tree}
}

// nearestKM returns the distance in kilometers to the nearest indexed centroid.
func (idx *centroidIndex) nearestKM(x, y float64) float64 {
	nearest := idx.tree.NearestNeighbor(rtreego.Point{x, y})
	if nearest == nil {
		return math.Inf(1)
	}
	item := nearest.(*centroidItem)
	return math.Hypot(item.x-x, item.y-y) / 1000
}
