package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents an axis-aligned bounding box in image coordinates:
// (X, Y) is the top-left corner and Y increases downward. This matches
// the coordinate space detectors operate in (rendered page images).
type BBox struct {
	X      float64 // Left
	Y      float64 // Top
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from a top-left corner and dimensions
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// BBoxFromCorners creates a bounding box from two opposite corners
// [x1,y1,x2,y2]. The corners may be given in any order.
func BBoxFromCorners(x1, y1, x2, y2 float64) BBox {
	x := math.Min(x1, x2)
	y := math.Min(y1, y2)
	return BBox{X: x, Y: y, Width: math.Abs(x2 - x1), Height: math.Abs(y2 - y1)}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Intersection returns the intersection of two bounding boxes
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}

	x := math.Max(b.Left(), other.Left())
	y := math.Max(b.Top(), other.Top())
	right := math.Min(b.Right(), other.Right())
	bottom := math.Min(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IntersectionArea returns the area covered by both boxes
func (b BBox) IntersectionArea(other BBox) float64 {
	return b.Intersection(other).Area()
}

// OverlapFraction returns the fraction of the smaller box's area that
// is covered by the intersection of the two boxes.
//
// The denominator is the smaller of the two areas, so a small box fully
// inside a large one yields 1.0 regardless of which receiver is used.
// Returns a value in [0, 1].
func (b BBox) OverlapFraction(other BBox) float64 {
	if !b.Intersects(other) {
		return 0
	}

	minArea := math.Min(b.Area(), other.Area())
	if minArea == 0 {
		return 0
	}

	return b.IntersectionArea(other) / minArea
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// IsValid returns true if the bounding box has positive dimensions
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

// Polygon is the 4-corner representation of an axis-aligned box, in
// clockwise order starting from the top-left corner. It is the
// geometric shape carried by every Block.
type Polygon struct {
	Corners [4]Point
}

// PolygonFromBBox converts a bounding box to its 4-corner polygon
func PolygonFromBBox(b BBox) Polygon {
	return Polygon{Corners: [4]Point{
		{X: b.Left(), Y: b.Top()},
		{X: b.Right(), Y: b.Top()},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.Left(), Y: b.Bottom()},
	}}
}

// PolygonFromCorners converts a box given as [x1,y1,x2,y2] to a polygon
func PolygonFromCorners(x1, y1, x2, y2 float64) Polygon {
	return PolygonFromBBox(BBoxFromCorners(x1, y1, x2, y2))
}

// BBox returns the axis-aligned bounding box of the polygon
func (p Polygon) BBox() BBox {
	minX, minY := p.Corners[0].X, p.Corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range p.Corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// XStart returns the left edge of the polygon
func (p Polygon) XStart() float64 { return p.BBox().Left() }

// XEnd returns the right edge of the polygon
func (p Polygon) XEnd() float64 { return p.BBox().Right() }

// YStart returns the top edge of the polygon
func (p Polygon) YStart() float64 { return p.BBox().Top() }

// YEnd returns the bottom edge of the polygon
func (p Polygon) YEnd() float64 { return p.BBox().Bottom() }

// Width returns the width of the polygon's bounding box
func (p Polygon) Width() float64 { return p.BBox().Width }

// Height returns the height of the polygon's bounding box
func (p Polygon) Height() float64 { return p.BBox().Height }

// Center returns the centroid of the polygon's bounding box
func (p Polygon) Center() Point { return p.BBox().Center() }

// Area returns the area of the polygon's bounding box
func (p Polygon) Area() float64 { return p.BBox().Area() }

// IntersectionArea returns the area covered by both polygons
func (p Polygon) IntersectionArea(other Polygon) float64 {
	return p.BBox().IntersectionArea(other.BBox())
}

// OverlapFraction returns the fraction of the smaller polygon's area
// covered by the intersection region. See BBox.OverlapFraction for the
// denominator choice.
func (p Polygon) OverlapFraction(other Polygon) float64 {
	return p.BBox().OverlapFraction(other.BBox())
}

// IntersectionMatrix computes the pairwise intersection areas between
// two sets of boxes. The result has len(a) rows and len(b) columns.
func IntersectionMatrix(a, b []BBox) [][]float64 {
	result := make([][]float64, len(a))
	for i := range a {
		result[i] = make([]float64, len(b))
		for j := range b {
			result[i][j] = a[i].IntersectionArea(b[j])
		}
	}
	return result
}

// CentroidDistanceMatrix computes the pairwise Euclidean distances
// between the centers of two sets of boxes. The result has len(a) rows
// and len(b) columns.
func CentroidDistanceMatrix(a, b []BBox) [][]float64 {
	result := make([][]float64, len(a))
	for i := range a {
		result[i] = make([]float64, len(b))
		for j := range b {
			result[i][j] = a[i].Center().Distance(b[j].Center())
		}
	}
	return result
}
