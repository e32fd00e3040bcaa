package merge

import (
	"log/slog"

	"github.com/tsawler/folio/model"
)

// Config holds configuration for merging detection results
type Config struct {
	// OverlapThreshold is the minimum overlap fraction for a molecule
	// candidate to replace an existing block of any type.
	// Default: 0.9
	OverlapThreshold float64

	// TableOverlapThreshold is the minimum overlap fraction for a
	// molecule-table candidate to replace an existing Table block.
	// Default: 0.9
	TableOverlapThreshold float64

	// Logger receives warnings for skipped records and dropped
	// candidates. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		OverlapThreshold:      0.9,
		TableOverlapThreshold: 0.9,
	}
}

// Merger reconciles freshly detected blocks with a page's existing
// blocks. Each candidate either replaces the first existing block it
// overlaps past the threshold (keeping that block's position in the
// page structure) or is appended to the end of the structure.
type Merger struct {
	config Config
	log    *slog.Logger
}

// NewMerger creates a merger with default configuration
func NewMerger() *Merger {
	return NewMergerWithConfig(DefaultConfig())
}

// NewMergerWithConfig creates a merger with custom configuration
func NewMergerWithConfig(config Config) *Merger {
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Merger{config: config, log: log}
}

// Merge consolidates per-page detection results into the document.
// Records referencing an out-of-range page index are skipped with a
// logged warning; candidates with malformed boxes are dropped. A bad
// record never aborts processing of the remaining pages.
func (m *Merger) Merge(doc *model.Document, results []PageDetections) {
	for _, result := range results {
		page := doc.GetPage(result.PageIndex)
		if page == nil {
			m.log.Warn("detection record references unknown page, skipping",
				"page_idx", result.PageIndex, "pages", doc.PageCount())
			continue
		}

		molecules := m.buildBlocks(doc, model.BlockMolecule, result.Molecules)
		tables := m.buildBlocks(doc, model.BlockMoleculeTable, result.Tables)

		if len(molecules) > 0 {
			// Molecules may replace an existing block of any type.
			m.Place(page, molecules, m.config.OverlapThreshold, nil, nil)
		}
		if len(tables) > 0 {
			// Molecule tables only ever replace plain Table blocks.
			m.Place(page, tables, m.config.TableOverlapThreshold, nil,
				[]model.BlockType{model.BlockTable})
		}
	}
}

// Place partitions candidate blocks into replacements and additions
// against the page's current (non-removed) blocks, then applies all
// replacements before all additions.
//
// For each candidate the page's blocks are scanned in existing order;
// blocks whose type is in exclude are skipped, and when restrict is
// non-empty only blocks whose type it contains are considered. The
// first block whose overlap fraction with the candidate reaches the
// threshold (inclusive) is the replacement target; scanning stops there.
// An existing block is never replaced twice in one call. Candidates
// with no qualifying target are appended to the end of the structure.
//
// Every placed block's page ownership is set to the page's identifier.
// The resulting structure reflects placement order, not reading order;
// a rule or the order resolver must run afterwards.
func (m *Merger) Place(page *model.Page, candidates []*model.Block, threshold float64, exclude, restrict []model.BlockType) {
	type swap struct {
		old, new *model.Block
	}

	var replacements []swap
	var additions []*model.Block
	claimed := make(map[model.BlockID]bool)

	for _, candidate := range candidates {
		target := m.findTarget(page, candidate, threshold, exclude, restrict, claimed)
		if target != nil {
			claimed[target.ID] = true
			replacements = append(replacements, swap{old: target, new: candidate})
		} else {
			additions = append(additions, candidate)
		}
	}

	for _, r := range replacements {
		page.ReplaceBlock(r.old, r.new)
	}
	for _, b := range additions {
		page.AddFullBlock(b)
	}
}

// findTarget scans the page's current blocks for the first qualifying
// replacement target of a candidate
func (m *Merger) findTarget(page *model.Page, candidate *model.Block, threshold float64, exclude, restrict []model.BlockType, claimed map[model.BlockID]bool) *model.Block {
	for _, existing := range page.CurrentChildren() {
		if claimed[existing.ID] {
			continue
		}
		if containsType(exclude, existing.Type) {
			continue
		}
		if len(restrict) > 0 && !containsType(restrict, existing.Type) {
			continue
		}
		if existing.Polygon.OverlapFraction(candidate.Polygon) >= threshold {
			return existing
		}
	}
	return nil
}

func containsType(types []model.BlockType, t model.BlockType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
