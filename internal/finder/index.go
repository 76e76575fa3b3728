package finder

import (
	"sort"

	"github.com/biogo/store/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/frame"
)

// originIndex is a KD-tree over residue frame origins, used to restrict
// pair validation to residues whose frames sit within the search radius.
type originIndex struct {
	tree *kdtree.Tree
}

// originPoint labels a kdtree point with its residue ID. It implements
// kdtree.Comparable itself so that tree nodes and queries compare against
// each other rather than bare kdtree.Point values.
type originPoint struct {
	kdtree.Point
	id string
}

func (p originPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(originPoint)
	return p.Point[d] - q.Point[d]
}

func (p originPoint) Dims() int { return len(p.Point) }

func (p originPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(originPoint)
	return p.Point.Distance(q.Point)
}

// originPoints implements kdtree.Interface over labelled points.
type originPoints []originPoint

func (p originPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p originPoints) Len() int                      { return len(p) }
func (p originPoints) Pivot(d kdtree.Dim) int        { return originPlane{points: p, Dim: d}.Pivot() }
func (p originPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// originPlane sorts originPoints along one dimension for tree construction.
type originPlane struct {
	kdtree.Dim
	points originPoints
}

func (p originPlane) Len() int { return len(p.points) }
func (p originPlane) Less(i, j int) bool {
	return p.points[i].Point[p.Dim] < p.points[j].Point[p.Dim]
}
func (p originPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p originPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p originPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

// newOriginIndex builds the KD-tree over the frame origins of the given
// residue IDs.
func newOriginIndex(ids []string, frames map[string]*frame.Frame) *originIndex {
	points := make(originPoints, 0, len(ids))
	for _, id := range ids {
		o := frames[id].Origin
		points = append(points, originPoint{
			Point: kdtree.Point{o.X, o.Y, o.Z},
			id:    id,
		})
	}
	return &originIndex{tree: kdtree.New(points, false)}
}

// neighborsWithin returns the IDs of residues whose frame origin lies
// within radius of the query origin, excluding the query residue itself.
// IDs are returned sorted for deterministic iteration.
func (x *originIndex) neighborsWithin(selfID string, origin r3.Vec, radius float64) []string {
	// The kdtree reports squared Euclidean distances.
	keeper := kdtree.NewDistKeeper(radius * radius)
	query := originPoint{Point: kdtree.Point{origin.X, origin.Y, origin.Z}, id: selfID}
	x.tree.NearestSet(keeper, query)

	var ids []string
	for _, c := range keeper.Heap {
		pt, ok := c.Comparable.(originPoint)
		if !ok {
			continue
		}
		if pt.id == selfID {
			continue
		}
		ids = append(ids, pt.id)
	}
	sort.Strings(ids)
	return ids
}
