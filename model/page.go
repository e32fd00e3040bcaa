package model

// ExtractionMethod indicates how a page's text content was obtained
type ExtractionMethod int

const (
	ExtractionUnknown ExtractionMethod = iota
	// ExtractionText means the text came from the structured source
	// stream, so span positions reflect authoring order.
	ExtractionText
	// ExtractionOCR means the text was recognized from an image; span
	// positions carry no ordering information.
	ExtractionOCR
)

func (m ExtractionMethod) String() string {
	switch m {
	case ExtractionText:
		return "text"
	case ExtractionOCR:
		return "ocr"
	default:
		return "unknown"
	}
}

// Page is a single page of a Document. Structure is the ordered
// sequence of block identifiers and the sole authoritative reading
// order for the page. The set of placed child blocks (placement order,
// including blocks a rule has removed from Structure) is available
// separately through CurrentChildren for geometric queries.
//
// All Structure mutation goes through ReplaceBlock, AddFullBlock,
// RemoveStructureItems and SetStructure; callers never splice the slice
// directly.
type Page struct {
	ID     int
	Width  float64
	Height float64

	// Structure is the page's reading order: an ordered sequence of
	// block identifiers, each resolving in the Document index.
	Structure []BlockID

	// Extraction records how the page's text was obtained.
	Extraction ExtractionMethod

	// LayoutSliced is true when the page went through layout slicing,
	// meaning span positions can be trusted for order reconstruction.
	LayoutSliced bool

	// RuleOrdered is true once a region rule has replaced Structure
	// wholesale. Such pages are exempt from default order resolution.
	RuleOrdered bool

	doc      *Document
	children []BlockID
}

// CurrentChildren returns the page's non-removed blocks in placement
// order. This is the set geometric queries (such as overlap matching)
// operate on; it is distinct from Structure, which is the reading order.
func (p *Page) CurrentChildren() []*Block {
	var current []*Block
	for _, id := range p.children {
		block := p.doc.GetBlock(id)
		if block == nil || block.Removed {
			continue
		}
		current = append(current, block)
	}
	return current
}

// ReplaceBlock retires old and puts new in its place, preserving old's
// position in Structure. The old block stays in the Document index with
// its Removed flag set. If old is not present in Structure, new is
// appended instead.
func (p *Page) ReplaceBlock(old, new *Block) {
	old.Removed = true
	new.PageID = p.ID
	p.children = append(p.children, new.ID)

	for i, id := range p.Structure {
		if id == old.ID {
			p.Structure[i] = new.ID
			return
		}
	}
	p.Structure = append(p.Structure, new.ID)
}

// AddFullBlock places a new block on the page, appending it to the end
// of Structure and recording page ownership.
func (p *Page) AddFullBlock(b *Block) {
	b.PageID = p.ID
	p.children = append(p.children, b.ID)
	p.Structure = append(p.Structure, b.ID)
}

// RemoveStructureItems removes the given identifiers from Structure.
// The blocks themselves remain in the Document index and among the
// page's children; only their visibility in the reading order changes.
func (p *Page) RemoveStructureItems(ids ...BlockID) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[BlockID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := p.Structure[:0]
	for _, id := range p.Structure {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	p.Structure = kept
}

// SetStructure replaces the page's reading order wholesale. Identifiers
// that do not resolve in the Document index are dropped.
func (p *Page) SetStructure(ids []BlockID) {
	replacement := make([]BlockID, 0, len(ids))
	for _, id := range ids {
		if p.doc.GetBlock(id) != nil {
			replacement = append(replacement, id)
		}
	}
	p.Structure = replacement
}
