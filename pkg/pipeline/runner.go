package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/matzehuels/figslides/pkg/cache"
	"github.com/matzehuels/figslides/pkg/core/plan"
	"github.com/matzehuels/figslides/pkg/errors"
	"github.com/matzehuels/figslides/pkg/history"
	"github.com/matzehuels/figslides/pkg/observability"
	"github.com/matzehuels/figslides/pkg/scene"
)

// Runner encapsulates pipeline execution with caching and history.
// Both CLI and server use it to avoid duplicating that logic.
//
// The Runner keeps no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger

	// PlanTTL and ArtifactTTL bound how long cached stages live.
	PlanTTL     time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// History is off until the History field is set.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		PlanTTL:     cache.TTLPlan,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute runs the complete plan → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc *scene.Document, opts Options) (result *Result, err error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "No data provided")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	fileName := opts.FileName
	if fileName == "" {
		fileName = doc.FileName
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnConvertStart(ctx, fileName, len(doc.Slides))
	defer func() { hooks.OnConvertComplete(ctx, fileName, time.Since(start), err) }()

	result = &Result{FileName: fileName}

	// Stage 1: Plan
	planStart := time.Now()
	deck, docHash, planHit, err := r.PlanWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Deck = deck
	result.DocumentHash = docHash
	result.CacheInfo.PlanHit = planHit
	result.Stats = deckStats(deck, doc)
	result.Stats.PlanTime = time.Since(planStart)

	r.Logger.Info("planned slides",
		"slides", result.Stats.Slides,
		"placed", result.Stats.Placed,
		"skipped", result.Stats.Skipped,
		"cached", planHit,
		"duration", result.Stats.PlanTime)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "conversion cancelled")
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, planHash, renderHit, err := r.RenderWithCacheInfo(ctx, deck, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.PlanHash = planHash
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	result.ConversionID = r.record(ctx, result, opts, time.Since(start))
	return result, nil
}

// PlanWithCacheInfo plans doc with caching. It returns the deck, the
// document hash and whether the plan came from cache.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, doc *scene.Document, opts Options) (*plan.Deck, string, bool, error) {
	r.applyLogger(&opts)
	opts.SetPlanDefaults()

	docHash, err := scene.Hash(doc)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}
	cacheKey := r.Keyer.PlanKey(docHash, opts.PlanKeyOpts())
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		var cached plan.Deck
		if err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached); err == nil {
			cacheHooks.OnCacheHit(ctx, "plan")
			r.reportSkips(ctx, &cached)
			return &cached, docHash, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, "plan")
	}

	deck, err := r.buildPlan(ctx, doc, opts)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := json.Marshal(deck); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.PlanTTL); err != nil {
			opts.Logger.Warn("cache plan", "err", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "plan", len(data))
		}
	}
	return deck, docHash, false, nil
}

func (r *Runner) buildPlan(ctx context.Context, doc *scene.Document, opts Options) (*plan.Deck, error) {
	start := time.Now()
	deck, err := plan.Build(doc, opts.PlanOptions())
	var st observability.PlanStats
	if deck != nil {
		s := deck.Stats()
		st = observability.PlanStats{Slides: s.Slides, Placed: s.Placed, Skipped: s.Skipped}
	}
	observability.Pipeline().OnPlanComplete(ctx, st, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "plan slides")
	}
	if deck.Title == "" {
		deck.Title = opts.FileName
	}
	r.reportSkips(ctx, deck)
	return deck, nil
}

// Plan is a convenience wrapper that calls PlanWithCacheInfo and discards the cache hit info.
func (r *Runner) Plan(ctx context.Context, doc *scene.Document, opts Options) (*plan.Deck, error) {
	deck, _, _, err := r.PlanWithCacheInfo(ctx, doc, opts)
	return deck, err
}

// RenderWithCacheInfo generates artifacts with caching. It returns the
// artifacts, the plan hash and whether every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, deck *plan.Deck, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, "", false, err
	}

	planData, err := json.Marshal(deck)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize plan for cache key")
	}
	planHash := cache.Hash(planData)
	title := resolveTitle(deck, opts)
	cacheHooks := observability.Cache()
	hooks := observability.Pipeline()

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format, title))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				cacheHooks.OnCacheMiss(ctx, "artifact")
				break
			}
			cacheHooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, planHash, true, nil
		}
	}

	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(deck, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format, title))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, planHash, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, deck *plan.Deck, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, deck, opts)
	return artifacts, err
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.History != nil {
		errs = append(errs, r.History.Close())
	}
	errs = lo.Compact(errs)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// reportSkips logs every skipped layer and forwards it to the hooks.
func (r *Runner) reportSkips(ctx context.Context, deck *plan.Deck) {
	hooks := observability.Pipeline()
	for _, s := range deck.Slides {
		for _, sk := range s.Skips() {
			r.Logger.Debug("skipped layer", "slide", s.Name, "layer", sk.Layer, "reason", sk.Reason, "detail", sk.Detail)
			hooks.OnLayerSkipped(ctx, s.Name, sk.Layer, string(sk.Reason))
		}
	}
}

// record stores a history entry and returns its ID. History failures are
// logged and never fail the conversion.
func (r *Runner) record(ctx context.Context, res *Result, opts Options, d time.Duration) string {
	if r.History == nil {
		return ""
	}
	rec := &history.Record{
		ID:           history.NewID(),
		FileName:     res.FileName,
		DocumentHash: res.DocumentHash,
		Slides:       res.Stats.Slides,
		Layers:       res.Stats.Layers,
		Skipped:      res.Stats.Skipped,
		Formats:      opts.Formats,
		Bytes:        lo.MapValues(res.Artifacts, func(b []byte, _ string) int { return len(b) }),
		CacheHit:     res.CacheInfo.PlanHit && res.CacheInfo.RenderHit,
		Source:       opts.Source,
		Duration:     d,
		Reasons: lo.MapEntries(res.Stats.Reasons, func(k plan.SkipReason, v int) (string, int) {
			return string(k), v
		}),
	}
	if err := r.History.Put(ctx, rec); err != nil {
		r.Logger.Warn("record conversion", "err", err)
		return ""
	}
	return rec.ID
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func deckStats(deck *plan.Deck, doc *scene.Document) Stats {
	s := deck.Stats()
	return Stats{
		Slides:  s.Slides,
		Layers:  doc.LayerCount(),
		Placed:  s.Placed,
		Skipped: s.Skipped,
		Reasons: s.Reasons,
	}
}
