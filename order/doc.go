// Package order resolves the default reading order of a page from the
// source-stream positions of its text spans.
//
// Each block's sort key is the midpoint between the first contained
// span's start position and the last contained span's end position.
// Blocks without spans, such as detected images or molecules, borrow a
// key interpolated from the nearest keyed neighbor in the current page
// order, so an unanchored block stays next to the content it was found
// beside. The sort is stable: equal keys preserve the existing order.
//
// Pages flagged rule-ordered keep the order their rules produced, and
// pages without native text extraction or sliced layout are skipped
// because their structures carry no usable positions.
package order
