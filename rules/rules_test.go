package rules

import (
	"strings"
	"testing"
)

func TestDecode_KnownRules(t *testing.T) {
	data := []byte(`{
		"layout": [
			{"type": "exclude_gutter", "position": "left", "width_ratio": 0.1}
		],
		"block_ordering": [
			{"type": "define_regions",
			 "pages": [0, 2],
			 "regions": [
				{"name": "header", "y_start_percent": 0, "y_end_percent": 20, "layout_type": "single_column"},
				{"name": "body", "y_start_percent": 20, "y_end_percent": 100, "layout_type": "two_column"}
			 ],
			 "region_order": ["header", "body"]}
		]
	}`)

	set, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}

	layout := set.Get(CategoryLayout)
	if len(layout) != 1 {
		t.Fatalf("layout rules = %d, want 1", len(layout))
	}
	gutter, ok := layout[0].(ExcludeGutter)
	if !ok {
		t.Fatalf("layout[0] is %T, want ExcludeGutter", layout[0])
	}
	if gutter.Position != PositionLeft || gutter.WidthRatio != 0.1 {
		t.Errorf("gutter = %+v, want left/0.1", gutter)
	}

	ordering := set.Get(CategoryBlockOrdering)
	regions, ok := ordering[0].(DefineRegions)
	if !ok {
		t.Fatalf("block_ordering[0] is %T, want DefineRegions", ordering[0])
	}
	if len(regions.Regions) != 2 || regions.Regions[1].Layout != TwoColumn {
		t.Errorf("regions = %+v", regions.Regions)
	}
	if len(regions.Pages) != 2 || regions.Pages[1] != 2 {
		t.Errorf("pages = %v, want [0 2]", regions.Pages)
	}
}

func TestDecode_UnknownTypeSurfacesError(t *testing.T) {
	data := []byte(`{
		"layout": [
			{"type": "reticulate_splines"},
			{"type": "exclude_gutter", "position": "right", "width_ratio": 0.05}
		]
	}`)

	set, err := Decode(data)
	if err == nil {
		t.Fatal("Decode() should report unknown rule types")
	}
	if !strings.Contains(err.Error(), "reticulate_splines") {
		t.Errorf("error %q should name the unknown type", err.Error())
	}

	// Valid rules still come back alongside the error.
	if set == nil || set.Len() != 1 {
		t.Fatalf("valid rules should survive an unknown sibling, got %d", set.Len())
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"layout": [`)); err == nil {
		t.Error("Decode() should fail on malformed JSON")
	}
}

func TestDecode_LazyParameterValidation(t *testing.T) {
	// Out-of-range parameters decode fine; validation happens at apply
	// time.
	data := []byte(`{"layout": [{"type": "exclude_gutter", "position": "sideways", "width_ratio": 7}]}`)
	set, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
}

func TestRuleSet_Empty(t *testing.T) {
	var set *RuleSet
	if set.Len() != 0 || set.Get(CategoryLayout) != nil {
		t.Error("nil RuleSet should behave as empty")
	}
}
