package model

// BlockID identifies a block uniquely within a Document.
type BlockID int

// NoPage is the PageID of a block that has not been placed on a page.
const NoPage = -1

// BlockType represents the kind of content a block holds
type BlockType int

const (
	BlockUnknown BlockType = iota
	BlockSpan
	BlockLine
	BlockText
	BlockTable
	BlockImage
	BlockFigure
	BlockCaption
	BlockMolecule
	BlockMoleculeTable
)

func (bt BlockType) String() string {
	switch bt {
	case BlockSpan:
		return "Span"
	case BlockLine:
		return "Line"
	case BlockText:
		return "Text"
	case BlockTable:
		return "Table"
	case BlockImage:
		return "Image"
	case BlockFigure:
		return "Figure"
	case BlockCaption:
		return "Caption"
	case BlockMolecule:
		return "Molecule"
	case BlockMoleculeTable:
		return "MoleculeTable"
	default:
		return "Unknown"
	}
}

// Block is a typed geometric content unit on a page. Blocks are created
// through Document.NewBlock, which registers them in the document-wide
// index; the variant payload fields are filled per type:
//
//   - Span:  Text plus MinPosition/MaxPosition, the block's location in
//     the original content stream
//   - Line, Text: Children referencing contained spans
//   - Molecule: StructureData (raw detector output)
//   - Table, MoleculeTable: HTML markup and, when parseable, Table
type Block struct {
	ID         BlockID
	Type       BlockType
	Polygon    Polygon
	PageID     int     // owning page, NoPage until placed
	Confidence float64 // detection confidence (0-1), 1.0 if not detected
	Removed    bool    // retired by a replacement; kept in the index

	// Variant payload
	Text          string
	MinPosition   int // source-stream position of the first character (spans)
	MaxPosition   int // source-stream position of the last character (spans)
	Children      []BlockID
	StructureData map[string]any
	HTML          string
	Table         *Table
}

// AddChild appends a child block reference
func (b *Block) AddChild(id BlockID) {
	b.Children = append(b.Children, id)
}

// ContainedBlocks returns the blocks of the given types contained in
// this block, recursively, in child order. With no types given, all
// descendants are returned.
func (b *Block) ContainedBlocks(doc *Document, types ...BlockType) []*Block {
	var found []*Block
	for _, id := range b.Children {
		child := doc.GetBlock(id)
		if child == nil {
			continue
		}
		if matchesType(child.Type, types) {
			found = append(found, child)
		}
		found = append(found, child.ContainedBlocks(doc, types...)...)
	}
	return found
}

func matchesType(t BlockType, types []BlockType) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}
