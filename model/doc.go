// Package model provides the in-memory representation of a document's
// page structure that the consolidation engine operates on.
//
// # Document Structure
//
// The [Document] type owns all pages and a flat index from [BlockID] to
// [Block]. Identifiers are unique document-wide and every identifier in
// a page's Structure resolves in the index:
//
//	doc := model.NewDocument()
//	page := doc.AddPage(612, 792)
//	block := doc.NewBlock(model.BlockText, model.PolygonFromCorners(10, 10, 200, 40))
//	page.AddFullBlock(block)
//
// Each [Page] carries its dimensions and a Structure slice, the ordered
// sequence of block identifiers that is the page's sole authoritative
// reading order. Structure is only ever mutated through the page's
// mediated operations (ReplaceBlock, AddFullBlock, RemoveStructureItems,
// SetStructure), which preserve index-referential integrity.
//
// # Blocks
//
// A [Block] is a typed geometric content unit: a text span or line, a
// table, an image, a detected molecule or molecule table. Spans carry
// source-stream position metadata (MinPosition/MaxPosition) used by
// default reading-order resolution.
//
// # Geometry
//
// Geometric primitives use image coordinates (origin top-left, Y
// increasing downward):
//
//   - [BBox] - bounding box with intersection, union and overlap
//   - [Polygon] - the 4-corner box representation carried by blocks
//   - [IntersectionMatrix], [CentroidDistanceMatrix] - pairwise bulk
//     association primitives
//
// The overlap fraction used throughout the engine is intersection area
// divided by the smaller of the two areas; see [BBox.OverlapFraction].
package model
