package rules

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Category scopes a rule to the part of processing it affects
type Category string

const (
	// CategoryLayout rules filter page content (e.g. gutter exclusion)
	CategoryLayout Category = "layout"
	// CategoryBlockOrdering rules redefine reading order
	CategoryBlockOrdering Category = "block_ordering"
)

// GutterPosition selects which page edge a gutter rule applies to
type GutterPosition string

const (
	PositionLeft  GutterPosition = "left"
	PositionRight GutterPosition = "right"
)

// LayoutType selects how blocks inside a region are ordered
type LayoutType string

const (
	SingleColumn LayoutType = "single_column"
	TwoColumn    LayoutType = "two_column"
)

// Rule is a decoded configuration rule. The set of implementations is
// closed: ExcludeGutter and DefineRegions. Unknown rule types are
// rejected at decode time, so dispatch over this interface is
// exhaustive.
type Rule interface {
	// Type returns the rule's configuration type tag
	Type() string

	rule() // sealed
}

// ExcludeGutter removes blocks lying entirely inside a page-edge band
// from the page structure. Parameters are validated at apply time, not
// decode time: missing or out-of-range values make the rule a no-op.
type ExcludeGutter struct {
	Position   GutterPosition `json:"position"`
	WidthRatio float64        `json:"width_ratio"`
}

func (ExcludeGutter) Type() string { return "exclude_gutter" }
func (ExcludeGutter) rule()        {}

// Region is a rule-defined vertical band of a page with its own
// ordering policy. The vertical extent is expressed as percentages of
// page height.
type Region struct {
	Name          string     `json:"name"`
	YStartPercent float64    `json:"y_start_percent"`
	YEndPercent   float64    `json:"y_end_percent"`
	Layout        LayoutType `json:"layout_type"`
}

// DefineRegions replaces the structure of the listed pages with a
// region-derived ordering and flags them rule-ordered.
type DefineRegions struct {
	Pages       []int    `json:"pages"`
	Regions     []Region `json:"regions"`
	RegionOrder []string `json:"region_order"`
}

func (DefineRegions) Type() string { return "define_regions" }
func (DefineRegions) rule()        {}

// RuleSet holds decoded rules grouped by category
type RuleSet struct {
	byCategory map[Category][]Rule
}

// NewRuleSet creates an empty rule set
func NewRuleSet() *RuleSet {
	return &RuleSet{byCategory: make(map[Category][]Rule)}
}

// Add appends a rule under the given category
func (s *RuleSet) Add(cat Category, r Rule) {
	s.byCategory[cat] = append(s.byCategory[cat], r)
}

// Get returns the rules of a category, in configuration order
func (s *RuleSet) Get(cat Category) []Rule {
	if s == nil {
		return nil
	}
	return s.byCategory[cat]
}

// Len returns the total number of rules in the set
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, rs := range s.byCategory {
		n += len(rs)
	}
	return n
}

// Decode parses rule configuration of the form
//
//	{"layout": [{"type": "exclude_gutter", ...}],
//	 "block_ordering": [{"type": "define_regions", ...}]}
//
// into a RuleSet. Records are decoded once into the closed rule union.
// Unknown rule types are reported in the returned error (joined, one
// per offending record) while the remaining valid rules are still
// returned, so callers can log and continue.
func Decode(data []byte) (*RuleSet, error) {
	var raw map[Category][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding rule configuration: %w", err)
	}

	set := NewRuleSet()
	var errs []error

	for cat, records := range raw {
		for i, record := range records {
			rule, err := decodeRule(record)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", cat, i, err))
				continue
			}
			set.Add(cat, rule)
		}
	}

	return set, errors.Join(errs...)
}

// decodeRule decodes a single rule record by its type tag
func decodeRule(record json.RawMessage) (Rule, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(record, &tag); err != nil {
		return nil, fmt.Errorf("reading rule type: %w", err)
	}

	switch tag.Type {
	case "exclude_gutter":
		var r ExcludeGutter
		if err := json.Unmarshal(record, &r); err != nil {
			return nil, fmt.Errorf("decoding exclude_gutter: %w", err)
		}
		return r, nil
	case "define_regions":
		var r DefineRegions
		if err := json.Unmarshal(record, &r); err != nil {
			return nil, fmt.Errorf("decoding define_regions: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", tag.Type)
	}
}
