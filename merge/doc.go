// Package merge reconciles externally detected regions (molecules,
// molecule tables) with a page's existing blocks.
//
// Each candidate block either replaces the first existing block it
// overlaps at or above a threshold - preserving that block's position
// in the page structure - or is appended as a net-new addition at the
// end of the structure. Replacements are always applied before
// additions. The overlap measure is the fraction of the smaller
// polygon's area covered by the intersection; see the model package.
//
// Merging produces a temporally-ordered structure, not a reading order:
// appended blocks sit at the end regardless of their position on the
// page. A region rule or the order resolver is expected to run after
// merging.
package merge
