// Package pipeline runs the complete design-export to presentation
// conversion.
//
// This package implements the plan → render pipeline that the CLI and the
// HTTP server share. Centralizing it keeps caching, history and defaults
// identical across entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Plan: position and style every layer of every slide ([plan.Build])
//  2. Render: turn the plan into output formats (PPTX, JSON, SVG)
//
// Both stages are cached: the plan by document hash and slide settings, each
// artifact by plan hash and format. Each stage can be run independently.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{pipeline.FormatPPTX},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	deck := result.Artifacts[pipeline.FormatPPTX]
//
// Run individual stages:
//
//	deck, err := runner.Plan(ctx, doc, opts)
//	artifacts, err := runner.Render(ctx, deck, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figslides/pkg/cache"
	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/core/plan"
	"github.com/matzehuels/figslides/pkg/errors"
	"github.com/matzehuels/figslides/pkg/pptx"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Format constants for output formats.
const (
	FormatPPTX = "pptx"
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPPTX

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPPTX: true,
	FormatJSON: true,
	FormatSVG:  true,
}

// ContentTypes maps each format to the MIME type it is served with.
var ContentTypes = map[string]string{
	FormatPPTX: pptx.MIMEType,
	FormatJSON: "application/json",
	FormatSVG:  "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a conversion. The JSON form is
// what the server accepts as query settings and what history records.
type Options struct {
	// FileName overrides the document's own name for titles and history.
	FileName string `json:"file_name,omitempty"`

	// Plan options
	Slide               layout.Config `json:"slide"`
	SlideNumbers        bool          `json:"slide_numbers,omitempty"`
	ConstrainToSafeArea bool          `json:"safe_area,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh ignores cached plans and artifacts, recomputing both.
	Refresh bool `json:"refresh,omitempty"`

	// Source labels where the request came from ("cli", "http").
	Source string `json:"source,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Created pins the presentation's creation timestamp. Zero uses the
	// time of rendering.
	Created time.Time `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ConversionID identifies the run in history. Empty when the runner has
	// no history store.
	ConversionID string

	// FileName is the resolved document name.
	FileName string

	// Deck is the instruction plan.
	Deck *plan.Deck

	// DocumentHash is the content hash of the input document.
	DocumentHash string

	// PlanHash is the content hash of the plan.
	PlanHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains counts and timings.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Slides     int
	Layers     int
	Placed     int
	Skipped    int
	Reasons    map[plan.SkipReason]int
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pptx, json, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list such as "pptx,svg", dropping
// blanks and duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetPlanDefaults()
	if err := o.Slide.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid slide settings")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetPlanDefaults fills the slide configuration and logger.
func (o *Options) SetPlanDefaults() {
	o.Slide = o.Slide.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills the format list and logger.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PlanOptions returns the options for [plan.Build].
func (o *Options) PlanOptions() plan.Options {
	return plan.Options{
		Config:              o.Slide,
		SlideNumbers:        o.SlideNumbers,
		ConstrainToSafeArea: o.ConstrainToSafeArea,
		Logger:              o.Logger,
	}
}

// PlanKeyOpts returns cache key options for planning.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	cfg := o.Slide.WithDefaults()
	return cache.PlanKeyOpts{
		TargetWidth:         cfg.TargetWidth,
		TargetHeight:        cfg.TargetHeight,
		SafeMargin:          cfg.SafeMargin,
		SlideNumbers:        o.SlideNumbers,
		ConstrainToSafeArea: o.ConstrainToSafeArea,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format, title string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Title: title}
}

// String summarizes the options for logs.
func (o Options) String() string {
	cfg := o.Slide.WithDefaults()
	return fmt.Sprintf("%gx%gin margin %g formats %s", cfg.TargetWidth, cfg.TargetHeight, cfg.SafeMargin, strings.Join(o.Formats, ","))
}
