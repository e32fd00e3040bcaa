// Package folio consolidates externally detected content, such as
// molecule drawings and molecule tables found on page images, into a
// document's block structure and resolves each page's reading order.
//
// Basic usage:
//
//	pipeline := folio.NewPipeline()
//	pipeline.Process(doc, detections)
//
// With layout rules and a custom logger:
//
//	ruleSet, err := rules.Decode(ruleJSON)
//	if err != nil {
//	    // handle or log: valid rules are still returned
//	}
//	pipeline := folio.NewPipelineWithConfig(folio.Config{
//	    Rules:  ruleSet,
//	    Logger: logger,
//	})
//	pipeline.Process(doc, detections)
//
// Detections typically come from the vision package, which queries a
// multimodal model per page image; any source producing
// merge.PageDetections works. Processing runs three stages in order:
// detection merging, rule application, and reading-order resolution.
// Each stage degrades per record rather than failing the document.
package folio

import (
	"log/slog"

	"github.com/tsawler/folio/merge"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/order"
	"github.com/tsawler/folio/rules"
)

// Config holds configuration for a processing pipeline
type Config struct {
	// Merge configures detection merging. The zero value uses merge
	// defaults.
	Merge merge.Config

	// Rules is the decoded rule set to apply after merging. Nil skips
	// rule application.
	Rules *rules.RuleSet

	// Logger receives diagnostics from all stages. Defaults to
	// slog.Default(). A logger set on a stage-specific config wins for
	// that stage.
	Logger *slog.Logger
}

// Pipeline runs the document consolidation stages: merging detections
// into the block structure, applying layout and ordering rules, and
// resolving the default reading order of the remaining pages.
type Pipeline struct {
	merger   *merge.Merger
	applier  *rules.Applier
	resolver *order.Resolver
	log      *slog.Logger
}

// NewPipeline creates a pipeline with default configuration and no
// rules
func NewPipeline() *Pipeline {
	return NewPipelineWithConfig(Config{})
}

// NewPipelineWithConfig creates a pipeline with custom configuration
func NewPipelineWithConfig(config Config) *Pipeline {
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	mergeConfig := config.Merge
	defaults := merge.DefaultConfig()
	if mergeConfig.OverlapThreshold == 0 {
		mergeConfig.OverlapThreshold = defaults.OverlapThreshold
	}
	if mergeConfig.TableOverlapThreshold == 0 {
		mergeConfig.TableOverlapThreshold = defaults.TableOverlapThreshold
	}
	if mergeConfig.Logger == nil {
		mergeConfig.Logger = log
	}

	return &Pipeline{
		merger: merge.NewMergerWithConfig(mergeConfig),
		applier: rules.NewApplierWithConfig(rules.Config{
			Rules:  config.Rules,
			Logger: log,
		}),
		resolver: order.NewResolverWithConfig(order.Config{Logger: log}),
		log:      log,
	}
}

// Process consolidates the detections into the document and resolves
// reading order. The document is modified in place.
func (p *Pipeline) Process(doc *model.Document, detections []merge.PageDetections) {
	p.merger.Merge(doc, detections)
	p.applier.Apply(doc)
	p.resolver.Resolve(doc)

	p.log.Debug("document processed",
		"pages", doc.PageCount(), "blocks", doc.BlockCount())
}
