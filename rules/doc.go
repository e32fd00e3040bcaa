// Package rules decodes declarative layout/ordering rules and applies
// them to a document's pages.
//
// Rules are configured as JSON records grouped by category and decoded
// once, through [Decode], into a closed tagged union: [ExcludeGutter]
// removes blocks lying entirely inside a page-edge band from the
// reading order, and [DefineRegions] rebuilds a page's reading order
// from named vertical regions, each with a single- or two-column
// policy. Unknown rule types surface as decode errors; they never reach
// the applier.
//
// Rule parameters are validated lazily when applied: a rule with
// missing or invalid parameters degrades to a logged no-op for that
// rule only and never interferes with other rules or pages. A page
// reordered by [DefineRegions] is flagged rule-ordered, handing
// ownership of its reading order off from default order resolution.
package rules
