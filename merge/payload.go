package merge

import (
	"github.com/tsawler/folio/htmltable"
	"github.com/tsawler/folio/model"
)

// Detection is a single detected region on a page. The box is
// [x1,y1,x2,y2] in image coordinates; Data carries detector-specific
// payload (molecule structure data, table markup under "html_content",
// or recognized plain text under "text_content" when no markup came
// back).
type Detection struct {
	BBox       []float64      `json:"bbox"`
	Confidence float64        `json:"confidence"`
	Data       map[string]any `json:"data"`
}

// PageDetections is the per-page record produced by an external
// detector
type PageDetections struct {
	PageIndex int         `json:"page_idx"`
	Molecules []Detection `json:"molecules"`
	Tables    []Detection `json:"tables"`
}

// buildBlocks converts detections into blocks of the given type,
// dropping (and logging) any detection whose box is not exactly four
// coordinates.
func (m *Merger) buildBlocks(doc *model.Document, t model.BlockType, detections []Detection) []*model.Block {
	var blocks []*model.Block
	for _, det := range detections {
		if len(det.BBox) != 4 {
			m.log.Warn("dropping detection with malformed bbox",
				"type", t.String(), "coords", len(det.BBox))
			continue
		}

		polygon := model.PolygonFromCorners(det.BBox[0], det.BBox[1], det.BBox[2], det.BBox[3])
		block := doc.NewBlock(t, polygon)
		block.Confidence = det.Confidence

		switch t {
		case model.BlockMolecule:
			block.StructureData = det.Data
		case model.BlockMoleculeTable:
			m.fillTablePayload(block, det)
		}

		blocks = append(blocks, block)
	}
	return blocks
}

// fillTablePayload copies the markup payload onto a molecule-table
// block and parses it when possible. Unparseable markup is kept raw;
// the block still participates in merging.
func (m *Merger) fillTablePayload(block *model.Block, det Detection) {
	content, _ := det.Data["html_content"].(string)
	if content == "" {
		// No markup from the detector; a recognized plain-text fallback
		// may still be present.
		block.Text, _ = det.Data["text_content"].(string)
		return
	}
	block.HTML = content

	table, err := htmltable.Parse(content)
	if err != nil {
		m.log.Warn("table markup did not parse, keeping raw content",
			"block", int(block.ID), "err", err)
		return
	}
	block.Table = table
}
