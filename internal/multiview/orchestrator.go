// Package multiview runs cache-aware analysis across a product's
// photographed views and merges the results into one summary.
package multiview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"stitchSightAi/internal/analysis"
	"stitchSightAi/internal/events"
	"stitchSightAi/internal/store"
	"stitchSightAi/internal/vision"
)

// ViewNames is the canonical view ordering used everywhere a per-view
// result is reported.
var ViewNames = []string{"front", "back", "side"}

// ProductViews holds the image URL for each photographed view. Empty
// URLs mean the view was not photographed.
type ProductViews struct {
	Front string `json:"front,omitempty"`
	Back  string `json:"back,omitempty"`
	Side  string `json:"side,omitempty"`
}

func (v ProductViews) url(name string) string {
	switch name {
	case "front":
		return v.Front
	case "back":
		return v.Back
	case "side":
		return v.Side
	}
	return ""
}

// ViewAnalysis is the outcome for a single view.
type ViewAnalysis struct {
	View     string                 `json:"view"`
	ImageURL string                 `json:"image_url"`
	Cached   bool                   `json:"cached"`
	Analysis analysis.ImageAnalysis `json:"analysis"`
}

// ProductAnalysis aggregates all available views for one product.
type ProductAnalysis struct {
	Views            []ViewAnalysis `json:"views"`
	CombinedAnalysis string         `json:"combined_analysis,omitempty"`
}

// ImageFetcher converts a remote image URL into normalized inline data.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (vision.ImageInput, error)
}

// Orchestrator coordinates cache gateway, image fetcher and vision model.
// Per-view failures degrade to "no analysis for this view" and never fail
// the whole run.
type Orchestrator struct {
	describer vision.Describer
	fetcher   ImageFetcher
	cache     store.Store
	events    *events.Broker
	logger    *slog.Logger
	limiter   *rate.Limiter
	model     string
}

// Options configures optional collaborators.
type Options struct {
	Fetcher ImageFetcher
	Events  *events.Broker
	Logger  *slog.Logger
	// Interval throttles consecutive vision calls; zero disables limiting.
	Interval time.Duration
	Model    string
}

// NewOrchestrator wires an orchestrator around the describer and cache.
func NewOrchestrator(describer vision.Describer, cache store.Store, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Interval), 2)
	}
	return &Orchestrator{
		describer: describer,
		fetcher:   opts.Fetcher,
		cache:     cache,
		events:    opts.Events,
		logger:    logger,
		limiter:   limiter,
		model:     opts.Model,
	}
}

// AnalyzeProduct analyzes every view with a non-empty URL. The view calls
// run concurrently; results land in fixed slots so the output order is
// always front, back, side regardless of completion order.
func (o *Orchestrator) AnalyzeProduct(ctx context.Context, views ProductViews) (ProductAnalysis, error) {
	slots := make([]*ViewAnalysis, len(ViewNames))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, name := range ViewNames {
		url := strings.TrimSpace(views.url(name))
		if url == "" {
			continue
		}
		i, name, url := i, name, url

		eg.Go(func() error {
			result, err := o.analyzeView(egCtx, name, url)
			if err != nil {
				// Degrade: drop the view, keep the rest of the product.
				o.logger.Warn("view analysis unavailable", "view", name, "error", err)
				o.publish(events.Event{ImageURL: url, View: name, Stage: "failed", Detail: err.Error()})
				return nil
			}
			slots[i] = &result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return ProductAnalysis{}, err
	}

	var product ProductAnalysis
	for _, slot := range slots {
		if slot != nil {
			product.Views = append(product.Views, *slot)
		}
	}
	if len(product.Views) == 0 {
		return ProductAnalysis{}, fmt.Errorf("multiview: no views available")
	}
	if len(product.Views) >= 2 {
		product.CombinedAnalysis = combineViews(product.Views)
	}
	return product, nil
}

func (o *Orchestrator) analyzeView(ctx context.Context, view, url string) (ViewAnalysis, error) {
	if cached, err := o.cache.Get(ctx, url); err == nil {
		o.publish(events.Event{ImageURL: url, View: view, Stage: "cached"})
		return ViewAnalysis{View: view, ImageURL: url, Cached: true, Analysis: cached.Analysis}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		// Cache trouble is advisory; recompute.
		o.logger.Warn("analysis cache unavailable", "view", view, "error", err)
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return ViewAnalysis{}, err
	}

	img := vision.ImageInput{URL: url}
	if o.fetcher != nil {
		fetched, err := o.fetcher.Fetch(ctx, url)
		if err != nil {
			// Inline data is preferred but the URL fallback still works.
			o.logger.Warn("image fetch failed, falling back to URL", "view", view, "error", err)
		} else {
			img = fetched
		}
	}

	o.publish(events.Event{ImageURL: url, View: view, Stage: "analyzing"})
	started := time.Now()
	raw, err := o.describer.Describe(ctx, img, analysis.BuildViewPrompt(view, true))
	if err != nil {
		return ViewAnalysis{}, fmt.Errorf("multiview: describe %s view: %w", view, err)
	}
	if strings.TrimSpace(raw) == "" {
		return ViewAnalysis{}, fmt.Errorf("multiview: empty response for %s view", view)
	}

	parsed := analysis.Parse(raw, true)
	parsed.Model = o.model
	parsed.ViewSpecificDetail = view

	meta := store.Meta{Model: o.model, Latency: time.Since(started)}
	if err := o.cache.Put(ctx, url, parsed, meta); err != nil {
		o.logger.Warn("analysis cache write failed", "view", view, "error", err)
	}

	o.publish(events.Event{ImageURL: url, View: view, Stage: "done"})
	return ViewAnalysis{View: view, ImageURL: url, Analysis: parsed}, nil
}

func (o *Orchestrator) publish(evt events.Event) {
	if o.events != nil {
		o.events.Publish(evt)
	}
}

const excerptLength = 200

// combineViews merges per-view attribute sets into one textual summary.
// Deduplication is case-sensitive exact match and preserves insertion
// order, so the front view's items always come first.
func combineViews(views []ViewAnalysis) string {
	var colors, materials, features []string
	for _, v := range views {
		colors = mergeUnique(colors, v.Analysis.CurrentColors)
		materials = mergeUnique(materials, v.Analysis.Materials)
		features = mergeUnique(features, v.Analysis.KeyFeatures)
	}

	var b strings.Builder
	b.WriteString("Combined product analysis\n")
	if len(colors) > 0 {
		fmt.Fprintf(&b, "Colors: %s\n", strings.Join(colors, ", "))
	}
	if len(materials) > 0 {
		fmt.Fprintf(&b, "Materials: %s\n", strings.Join(materials, ", "))
	}
	if len(features) > 0 {
		fmt.Fprintf(&b, "Key features: %s\n", strings.Join(features, ", "))
	}
	for _, v := range views {
		fmt.Fprintf(&b, "\n[%s view] %s\n", v.View, excerpt(v.Analysis.FullAnalysis))
	}
	return b.String()
}

func mergeUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, item := range dst {
		seen[item] = true
	}
	for _, item := range src {
		if !seen[item] {
			seen[item] = true
			dst = append(dst, item)
		}
	}
	return dst
}

func excerpt(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= excerptLength {
		return trimmed
	}
	return trimmed[:excerptLength] + "..."
}
