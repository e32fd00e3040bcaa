package model

// Document owns all pages of a processed document and a flat index from
// block identifier to Block. Identifiers are unique document-wide; every
// identifier appearing in a page's Structure resolves in this index.
//
// A Document is not safe for concurrent mutation; callers that share one
// across goroutines must serialize access externally.
type Document struct {
	Pages []*Page

	blocks map[BlockID]*Block
	nextID BlockID
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Pages:  make([]*Page, 0),
		blocks: make(map[BlockID]*Block),
	}
}

// AddPage appends a new page with the given dimensions and returns it.
// Page identifiers are assigned sequentially from zero.
func (d *Document) AddPage(width, height float64) *Page {
	page := &Page{
		ID:     len(d.Pages),
		Width:  width,
		Height: height,
		doc:    d,
	}
	d.Pages = append(d.Pages, page)
	return page
}

// GetPage returns a page by identifier, or nil if out of range
func (d *Document) GetPage(id int) *Page {
	if id < 0 || id >= len(d.Pages) {
		return nil
	}
	return d.Pages[id]
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// NewBlock creates a block of the given type and shape, assigns it a
// document-unique identifier and registers it in the index. The block is
// not placed on any page; placement (and page ownership) happens through
// Page.ReplaceBlock or Page.AddFullBlock.
func (d *Document) NewBlock(t BlockType, polygon Polygon) *Block {
	block := &Block{
		ID:         d.nextID,
		Type:       t,
		Polygon:    polygon,
		PageID:     NoPage,
		Confidence: 1.0,
	}
	d.nextID++
	d.blocks[block.ID] = block
	return block
}

// GetBlock returns the block with the given identifier, or nil
func (d *Document) GetBlock(id BlockID) *Block {
	return d.blocks[id]
}

// BlockCount returns the number of blocks in the document index
func (d *Document) BlockCount() int {
	return len(d.blocks)
}

// PrevBlock returns the block preceding b in its page's linear order,
// or nil if b is first, unplaced, or not in its page's structure.
func (d *Document) PrevBlock(b *Block) *Block {
	page := d.GetPage(b.PageID)
	if page == nil {
		return nil
	}
	for i, id := range page.Structure {
		if id == b.ID {
			if i == 0 {
				return nil
			}
			return d.GetBlock(page.Structure[i-1])
		}
	}
	return nil
}

// NextBlock returns the block following b in its page's linear order,
// or nil if b is last, unplaced, or not in its page's structure.
func (d *Document) NextBlock(b *Block) *Block {
	page := d.GetPage(b.PageID)
	if page == nil {
		return nil
	}
	for i, id := range page.Structure {
		if id == b.ID {
			if i == len(page.Structure)-1 {
				return nil
			}
			return d.GetBlock(page.Structure[i+1])
		}
	}
	return nil
}
