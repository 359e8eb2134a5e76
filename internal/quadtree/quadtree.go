// Package quadtree implements the point index used for candidate lookup
// during a drag gesture. The tree is built once per gesture from a node
// snapshot and queried on every resolution tick.
package quadtree

import "github.com/goflowspace/linksnap/internal/domain"

const (
	// Capacity is the number of points a cell holds before it subdivides.
	Capacity = 4

	// maxDepth stops subdivision for pathological inputs (many points at
	// one coordinate); cells at this depth grow past Capacity instead.
	maxDepth = 16

	// DefaultPadding is the margin added around the bounding box of all
	// node extents when no explicit padding is configured. A positive
	// margin keeps every indexed point strictly interior to the root.
	DefaultPadding = 50.0
)

// Point is an indexed canvas point tagged with the node it belongs to. The
// indexed coordinate is the node's top-left corner.
type Point struct {
	ID  string
	Pos domain.Point
}

// Tree is a point quadtree over node top-left corners. Build returns nil
// for an empty node set; all methods are nil-safe, so callers treat an
// absent index as "no candidates" without checking.
type Tree struct {
	root *cell
	size int
}

// cell is either a leaf holding up to Capacity points or an internal cell
// whose four quadrant children are all non-nil. There is no partially
// subdivided state.
type cell struct {
	boundary domain.Rect
	depth    int
	leaf     bool
	points   []Point
	ne       *cell
	nw       *cell
	se       *cell
	sw       *cell
}

// Build indexes the top-left corners of the given nodes. The tree boundary
// is the bounding box of all node extents, expanded by padding on every
// side (DefaultPadding when padding <= 0).
func Build(nodes []domain.Node, padding float64) *Tree {
	if len(nodes) == 0 {
		return nil
	}
	if padding <= 0 {
		padding = DefaultPadding
	}

	bounds := nodes[0].Bounds()
	for i := 1; i < len(nodes); i++ {
		bounds = bounds.Union(nodes[i].Bounds())
	}

	t := &Tree{root: &cell{boundary: bounds.Expand(padding), leaf: true}}
	for i := range nodes {
		n := &nodes[i]
		if t.root.insert(Point{ID: n.ID, Pos: n.Position}) {
			t.size++
		}
	}
	return t
}

// Query returns every indexed point lying strictly inside r, descending
// into each child quadrant whose boundary intersects r. A nil tree returns
// nothing.
func (t *Tree) Query(r domain.Rect) []Point {
	if t == nil || t.root == nil {
		return nil
	}
	return t.root.query(r, nil)
}

// Len reports the number of indexed points. Nil-safe.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Boundary returns the padded root boundary. Nil-safe; the zero Rect is
// returned for an absent tree.
func (t *Tree) Boundary() domain.Rect {
	if t == nil || t.root == nil {
		return domain.Rect{}
	}
	return t.root.boundary
}

func (c *cell) insert(p Point) bool {
	if !c.boundary.Contains(p.Pos) {
		return false
	}
	if c.leaf {
		if len(c.points) < Capacity || c.depth >= maxDepth {
			c.points = append(c.points, p)
			return true
		}
		c.subdivide()
	}
	return c.ne.insert(p) || c.nw.insert(p) || c.se.insert(p) || c.sw.insert(p)
}

// subdivide splits a full leaf into four quadrants and re-inserts its
// points. Children tile the parent exactly, sharing its outer edges, so
// half-open containment assigns every point to exactly one child.
func (c *cell) subdivide() {
	b := c.boundary
	midX := b.X + b.W/2
	midY := b.Y + b.H/2

	c.nw = &cell{boundary: domain.NewRect(b.X, b.Y, midX-b.X, midY-b.Y), depth: c.depth + 1, leaf: true}
	c.ne = &cell{boundary: domain.NewRect(midX, b.Y, b.MaxX()-midX, midY-b.Y), depth: c.depth + 1, leaf: true}
	c.sw = &cell{boundary: domain.NewRect(b.X, midY, midX-b.X, b.MaxY()-midY), depth: c.depth + 1, leaf: true}
	c.se = &cell{boundary: domain.NewRect(midX, midY, b.MaxX()-midX, b.MaxY()-midY), depth: c.depth + 1, leaf: true}
	c.leaf = false

	points := c.points
	c.points = nil
	for _, p := range points {
		_ = c.ne.insert(p) || c.nw.insert(p) || c.se.insert(p) || c.sw.insert(p)
	}
}

func (c *cell) query(r domain.Rect, out []Point) []Point {
	if !c.boundary.Intersects(r) {
		return out
	}
	if c.leaf {
		for _, p := range c.points {
			if r.ContainsStrict(p.Pos) {
				out = append(out, p)
			}
		}
		return out
	}
	out = c.ne.query(r, out)
	out = c.nw.query(r, out)
	out = c.se.query(r, out)
	out = c.sw.query(r, out)
	return out
}
