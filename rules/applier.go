package rules

import (
	"log/slog"
	"sort"

	"github.com/tsawler/folio/model"
)

// Config holds configuration for the rule applier
type Config struct {
	// Rules is the decoded rule set to apply. A nil or empty set makes
	// Apply a no-op.
	Rules *RuleSet

	// Logger receives warnings for rules degraded to no-ops. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

// Applier evaluates declarative layout and ordering rules against a
// document. A failing rule degrades to a no-op for that rule only;
// nothing an individual rule does aborts processing of the remaining
// rules or pages.
type Applier struct {
	rules *RuleSet
	log   *slog.Logger
}

// NewApplier creates an applier for the given rule set
func NewApplier(rules *RuleSet) *Applier {
	return NewApplierWithConfig(Config{Rules: rules})
}

// NewApplierWithConfig creates an applier with custom configuration
func NewApplierWithConfig(config Config) *Applier {
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Applier{rules: config.Rules, log: log}
}

// Apply evaluates all rules against every page of the document. Layout
// rules run first, then block-ordering rules, each in configuration
// order.
func (a *Applier) Apply(doc *model.Document) {
	if a.rules == nil || a.rules.Len() == 0 {
		return
	}

	for _, page := range doc.Pages {
		for _, cat := range []Category{CategoryLayout, CategoryBlockOrdering} {
			for _, rule := range a.rules.Get(cat) {
				a.applyRule(page, doc, rule)
			}
		}
	}
}

// applyRule dispatches a single rule against a single page. The rule
// union is closed, so the type switch is exhaustive.
func (a *Applier) applyRule(page *model.Page, doc *model.Document, rule Rule) {
	switch r := rule.(type) {
	case ExcludeGutter:
		a.applyExcludeGutter(page, doc, r)
	case DefineRegions:
		a.applyDefineRegions(page, doc, r)
	}
}

// applyExcludeGutter removes from the page structure every block lying
// entirely inside the configured gutter band. Blocks stay in the
// document index; only their visibility in the reading order changes.
// Missing or invalid parameters make the rule a no-op.
func (a *Applier) applyExcludeGutter(page *model.Page, doc *model.Document, r ExcludeGutter) {
	if r.WidthRatio <= 0 || r.WidthRatio > 1 {
		a.log.Warn("exclude_gutter has invalid width_ratio, skipping rule",
			"width_ratio", r.WidthRatio)
		return
	}

	gutterWidth := page.Width * r.WidthRatio

	var inGutter func(p model.Polygon) bool
	switch r.Position {
	case PositionLeft:
		// Entirely in the gutter: right edge strictly before the
		// gutter boundary.
		inGutter = func(p model.Polygon) bool { return p.XEnd() < gutterWidth }
	case PositionRight:
		boundary := page.Width - gutterWidth
		inGutter = func(p model.Polygon) bool { return p.XStart() > boundary }
	default:
		a.log.Warn("exclude_gutter has invalid position, skipping rule",
			"position", string(r.Position))
		return
	}

	var remove []model.BlockID
	for _, id := range page.Structure {
		block := doc.GetBlock(id)
		if block == nil {
			continue
		}
		if inGutter(block.Polygon) {
			remove = append(remove, id)
		}
	}
	page.RemoveStructureItems(remove...)
}

// applyDefineRegions rebuilds the page structure from the configured
// regions. Blocks whose full vertical extent falls inside a region are
// ordered by that region's layout policy; blocks matched by no region
// are appended last, sorted by top edge. The page is flagged
// rule-ordered, which exempts it from default order resolution.
func (a *Applier) applyDefineRegions(page *model.Page, doc *model.Document, r DefineRegions) {
	if !containsInt(r.Pages, page.ID) {
		return
	}
	if len(r.Regions) == 0 || len(r.RegionOrder) == 0 {
		a.log.Warn("define_regions has no regions or no region_order, skipping rule",
			"page", page.ID)
		return
	}

	regionsByName := make(map[string]Region, len(r.Regions))
	for _, region := range r.Regions {
		regionsByName[region.Name] = region
	}

	var newStructure []model.BlockID
	claimed := make(map[model.BlockID]bool)

	for _, name := range r.RegionOrder {
		region, ok := regionsByName[name]
		if !ok {
			a.log.Warn("region_order names an undefined region, ignoring it",
				"region", name, "page", page.ID)
			continue
		}

		yStart := page.Height * region.YStartPercent / 100
		yEnd := page.Height * region.YEndPercent / 100

		var regionBlocks []*model.Block
		for _, id := range page.Structure {
			if claimed[id] {
				continue
			}
			block := doc.GetBlock(id)
			if block == nil {
				continue
			}
			if block.Polygon.YStart() >= yStart && block.Polygon.YEnd() <= yEnd {
				claimed[id] = true
				regionBlocks = append(regionBlocks, block)
			}
		}

		sortReadingOrder(regionBlocks, region.Layout, page.Width)
		for _, block := range regionBlocks {
			newStructure = append(newStructure, block.ID)
		}
	}

	// Blocks matched by no region (spanning boundaries, or outside all
	// ranges) come last, by top edge.
	var leftover []*model.Block
	for _, id := range page.Structure {
		if claimed[id] {
			continue
		}
		if block := doc.GetBlock(id); block != nil {
			leftover = append(leftover, block)
		}
	}
	sort.SliceStable(leftover, func(i, j int) bool {
		return leftover[i].Polygon.YStart() < leftover[j].Polygon.YStart()
	})
	for _, block := range leftover {
		newStructure = append(newStructure, block.ID)
	}

	page.SetStructure(newStructure)
	page.RuleOrdered = true
}

// sortReadingOrder orders region blocks in place per the layout policy.
// two_column partitions by horizontal start relative to the page
// center (left column first), each column top to bottom; single_column
// (and any unrecognized layout) sorts top to bottom.
func sortReadingOrder(blocks []*model.Block, layout LayoutType, pageWidth float64) {
	byTop := func(items []*model.Block) {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Polygon.YStart() < items[j].Polygon.YStart()
		})
	}

	if layout != TwoColumn {
		byTop(blocks)
		return
	}

	center := pageWidth / 2
	var left, right []*model.Block
	for _, block := range blocks {
		if block.Polygon.XStart() < center {
			left = append(left, block)
		} else {
			right = append(right, block)
		}
	}
	byTop(left)
	byTop(right)
	copy(blocks, append(left, right...))
}

func containsInt(values []int, v int) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
