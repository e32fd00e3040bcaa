package order

import (
	"log/slog"
	"sort"

	"github.com/tsawler/folio/model"
)

// Config holds configuration for the reading-order resolver
type Config struct {
	// Logger receives diagnostics for pages that cannot be ordered.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Resolver derives a default reading order for pages from the source
// positions of the text spans their blocks contain. Pages already
// ordered by a rule, pages without sliced layout, and pages whose text
// came from OCR rather than native extraction are left untouched.
type Resolver struct {
	log *slog.Logger
}

// NewResolver creates a resolver with default configuration
func NewResolver() *Resolver {
	return NewResolverWithConfig(Config{})
}

// NewResolverWithConfig creates a resolver with custom configuration
func NewResolverWithConfig(config Config) *Resolver {
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{log: log}
}

// Resolve orders the structure of every eligible page by source
// position. A block's key is the midpoint of the span positions it
// contains; blocks without spans borrow a key from their nearest keyed
// neighbor. Pages with no keyed block at all keep their current order.
func (r *Resolver) Resolve(doc *model.Document) {
	for _, page := range doc.Pages {
		if page.RuleOrdered {
			continue
		}
		if page.Extraction != model.ExtractionText || !page.LayoutSliced {
			continue
		}
		r.resolvePage(doc, page)
	}
}

func (r *Resolver) resolvePage(doc *model.Document, page *model.Page) {
	keys := make(map[model.BlockID]float64, len(page.Structure))

	// First pass: blocks carrying text spans get the midpoint of their
	// span extent in the source stream.
	for _, id := range page.Structure {
		block := doc.GetBlock(id)
		if block == nil {
			continue
		}
		spans := block.ContainedBlocks(doc, model.BlockSpan)
		if len(spans) == 0 {
			continue
		}
		first := spans[0].MinPosition
		last := spans[len(spans)-1].MaxPosition
		keys[id] = float64(first+last) / 2
	}

	if len(keys) == 0 {
		r.log.Debug("page has no positioned spans, keeping current order",
			"page", page.ID)
		return
	}

	// Second pass: spanless blocks interpolate from the nearest keyed
	// neighbor, preferring the preceding one. Keys assigned here are
	// visible to later blocks, so a run of spanless blocks keeps its
	// relative order.
	for _, id := range page.Structure {
		if _, ok := keys[id]; ok {
			continue
		}
		block := doc.GetBlock(id)
		if block == nil {
			continue
		}
		if key, ok := interpolateKey(doc, block, keys); ok {
			keys[id] = key
		}
	}

	ordered := make([]model.BlockID, 0, len(page.Structure))
	for _, id := range page.Structure {
		if _, ok := keys[id]; ok {
			ordered = append(ordered, id)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return keys[ordered[i]] < keys[ordered[j]]
	})

	// Blocks that never got a key (no keyed neighbor on either side)
	// trail the ordered run in their original relative order.
	for _, id := range page.Structure {
		if _, ok := keys[id]; !ok {
			ordered = append(ordered, id)
		}
	}

	page.SetStructure(ordered)
}

// interpolateKey derives a key for a spanless block from its nearest
// keyed neighbor. Walking backward, the key is the preceding key plus
// the distance in blocks; walking forward, the following key minus the
// distance. The backward direction wins when both exist.
func interpolateKey(doc *model.Document, block *model.Block, keys map[model.BlockID]float64) (float64, bool) {
	steps := 1
	for prev := doc.PrevBlock(block); prev != nil; prev = doc.PrevBlock(prev) {
		if key, ok := keys[prev.ID]; ok {
			return key + float64(steps), true
		}
		steps++
	}

	steps = 1
	for next := doc.NextBlock(block); next != nil; next = doc.NextBlock(next) {
		if key, ok := keys[next.ID]; ok {
			return key - float64(steps), true
		}
		steps++
	}

	return 0, false
}
