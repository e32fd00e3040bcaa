package folio

import (
	"testing"

	"github.com/tsawler/folio/merge"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/rules"
)

func textBlockAt(doc *model.Document, page *model.Page, x1, y1, x2, y2 float64, minPos, maxPos int) *model.Block {
	span := doc.NewBlock(model.BlockSpan, model.PolygonFromCorners(x1, y1, x2, y2))
	span.MinPosition = minPos
	span.MaxPosition = maxPos

	block := doc.NewBlock(model.BlockText, model.PolygonFromCorners(x1, y1, x2, y2))
	block.AddChild(span.ID)
	page.AddFullBlock(block)
	return block
}

func TestPipeline_Process(t *testing.T) {
	doc := model.NewDocument()
	page := doc.AddPage(800, 1000)
	page.Extraction = model.ExtractionText
	page.LayoutSliced = true

	// A marginal artifact in the left gutter, two text blocks, and a
	// figure the detector will identify as a molecule drawing.
	gutter := textBlockAt(doc, page, 0, 100, 60, 140, 0, 4)
	textA := textBlockAt(doc, page, 100, 100, 700, 140, 5, 15)
	figure := doc.NewBlock(model.BlockFigure, model.PolygonFromCorners(100, 300, 300, 500))
	page.AddFullBlock(figure)
	textC := textBlockAt(doc, page, 100, 600, 700, 640, 25, 35)

	detections := []merge.PageDetections{{
		PageIndex: 0,
		Molecules: []merge.Detection{{
			BBox:       []float64{100, 300, 300, 500},
			Confidence: 0.95,
			Data:       map[string]any{"smiles": "C1=CC=CC=C1"},
		}},
		Tables: []merge.Detection{{
			BBox:       []float64{400, 700, 700, 900},
			Confidence: 0.9,
			Data: map[string]any{
				"html_content": "<table><tr><th>Name</th></tr><tr><td>Benzene</td></tr></table>",
			},
		}},
	}}

	ruleSet, err := rules.Decode([]byte(`{
		"layout": [{"type": "exclude_gutter", "position": "left", "width_ratio": 0.1}]
	}`))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	NewPipelineWithConfig(Config{Rules: ruleSet}).Process(doc, detections)

	// The figure's slot is taken by the molecule; the detected table
	// had no existing table to replace and was appended. The gutter
	// artifact is gone and the rest follows span order, with spanless
	// blocks keyed off their neighbors.
	if len(page.Structure) != 4 {
		t.Fatalf("Structure = %v, want 4 entries", page.Structure)
	}

	if page.Structure[0] != textA.ID {
		t.Errorf("Structure[0] = %d, want text block %d", page.Structure[0], textA.ID)
	}

	molecule := doc.GetBlock(page.Structure[1])
	if molecule.Type != model.BlockMolecule {
		t.Fatalf("Structure[1] is %v, want a molecule", molecule.Type)
	}
	if smiles, _ := molecule.StructureData["smiles"].(string); smiles != "C1=CC=CC=C1" {
		t.Errorf("molecule structure data = %v", molecule.StructureData)
	}
	if !figure.Removed {
		t.Error("replaced figure should be retired")
	}

	if page.Structure[2] != textC.ID {
		t.Errorf("Structure[2] = %d, want text block %d", page.Structure[2], textC.ID)
	}

	table := doc.GetBlock(page.Structure[3])
	if table.Type != model.BlockMoleculeTable {
		t.Fatalf("Structure[3] is %v, want a molecule table", table.Type)
	}
	if table.Table == nil || table.Table.RowCount() != 2 {
		t.Errorf("table payload not parsed: %+v", table.Table)
	}

	for _, id := range page.Structure {
		if id == gutter.ID {
			t.Error("gutter block should have been excluded")
		}
	}
}

func TestPipeline_RuleOrderedPageKeepsRuleOrder(t *testing.T) {
	doc := model.NewDocument()
	page := doc.AddPage(800, 1000)
	page.Extraction = model.ExtractionText
	page.LayoutSliced = true

	// Span order says top first, but the rule puts the bottom region
	// ahead. The resolver must not override the rule.
	top := textBlockAt(doc, page, 100, 100, 700, 140, 5, 15)
	bottom := textBlockAt(doc, page, 100, 800, 700, 840, 25, 35)

	ruleSet, err := rules.Decode([]byte(`{
		"block_ordering": [{
			"type": "define_regions",
			"pages": [0],
			"regions": [
				{"name": "upper", "y_start_percent": 0, "y_end_percent": 50, "layout_type": "single_column"},
				{"name": "lower", "y_start_percent": 50, "y_end_percent": 100, "layout_type": "single_column"}
			],
			"region_order": ["lower", "upper"]
		}]
	}`))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	NewPipelineWithConfig(Config{Rules: ruleSet}).Process(doc, nil)

	if !page.RuleOrdered {
		t.Fatal("page should be rule-ordered")
	}
	if page.Structure[0] != bottom.ID || page.Structure[1] != top.ID {
		t.Errorf("Structure = %v, want [%d %d]", page.Structure, bottom.ID, top.ID)
	}
}

func TestPipeline_DefaultConfig(t *testing.T) {
	doc := model.NewDocument()
	page := doc.AddPage(800, 1000)
	page.Extraction = model.ExtractionText
	page.LayoutSliced = true

	b := textBlockAt(doc, page, 100, 600, 700, 640, 25, 35)
	a := textBlockAt(doc, page, 100, 100, 700, 140, 5, 15)

	NewPipeline().Process(doc, nil)

	if page.Structure[0] != a.ID || page.Structure[1] != b.ID {
		t.Errorf("Structure = %v, want [%d %d]", page.Structure, a.ID, b.ID)
	}
}
