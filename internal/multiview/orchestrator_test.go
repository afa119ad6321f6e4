package multiview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchSightAi/internal/store"
	"stitchSightAi/internal/vision"
)

type fakeDescriber struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeDescriber) Describe(_ context.Context, img vision.ImageInput, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, img.URL)
	if err, ok := f.errs[img.URL]; ok {
		return "", err
	}
	return f.responses[img.URL], nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(d vision.Describer, cache store.Store) *Orchestrator {
	return NewOrchestrator(d, cache, Options{Logger: quietLogger(), Model: "test-model"})
}

func TestAnalyzeProductMergesViewsInCanonicalOrder(t *testing.T) {
	describer := &fakeDescriber{responses: map[string]string{
		"https://img/front.png": "Colors: Red\nMaterials: cotton\nKey features: hood",
		"https://img/back.png":  "Colors: Red, Blue\nMaterials: cotton\nKey features: print",
	}}
	cache := store.NewMemoryStore(time.Hour)
	defer cache.Close()

	o := newTestOrchestrator(describer, cache)
	product, err := o.AnalyzeProduct(context.Background(), ProductViews{
		Front: "https://img/front.png",
		Back:  "https://img/back.png",
	})
	require.NoError(t, err)
	require.Len(t, product.Views, 2)
	assert.Equal(t, "front", product.Views[0].View)
	assert.Equal(t, "back", product.Views[1].View)

	require.NotEmpty(t, product.CombinedAnalysis)
	assert.Contains(t, product.CombinedAnalysis, "Colors: Red, Blue")
	assert.Contains(t, product.CombinedAnalysis, "Materials: cotton")
	assert.Contains(t, product.CombinedAnalysis, "Key features: hood, print")
	assert.Contains(t, product.CombinedAnalysis, "[front view]")
	assert.Contains(t, product.CombinedAnalysis, "[back view]")
}

func TestAnalyzeProductCaseSensitiveDedup(t *testing.T) {
	describer := &fakeDescriber{responses: map[string]string{
		"https://img/front.png": "Colors: Red",
		"https://img/back.png":  "Colors: red, Red",
	}}
	cache := store.NewMemoryStore(time.Hour)
	defer cache.Close()

	o := newTestOrchestrator(describer, cache)
	product, err := o.AnalyzeProduct(context.Background(), ProductViews{
		Front: "https://img/front.png",
		Back:  "https://img/back.png",
	})
	require.NoError(t, err)

	// "red" and "Red" are distinct; front's item leads.
	assert.Contains(t, product.CombinedAnalysis, "Colors: Red, red")
}

func TestAnalyzeProductSingleViewHasNoCombinedSummary(t *testing.T) {
	describer := &fakeDescriber{responses: map[string]string{
		"https://img/front.png": "Product type: shirt",
	}}
	cache := store.NewMemoryStore(time.Hour)
	defer cache.Close()

	o := newTestOrchestrator(describer, cache)
	product, err := o.AnalyzeProduct(context.Background(), ProductViews{Front: "https://img/front.png"})
	require.NoError(t, err)
	require.Len(t, product.Views, 1)
	assert.Empty(t, product.CombinedAnalysis)
}

func TestAnalyzeProductToleratesFailedView(t *testing.T) {
	describer := &fakeDescriber{
		responses: map[string]string{
			"https://img/front.png": "Product type: shirt\nColors: blue",
			"https://img/side.png":  "Product type: shirt\nColors: blue",
		},
		errs: map[string]error{
			"https://img/back.png": fmt.Errorf("model unavailable"),
		},
	}
	cache := store.NewMemoryStore(time.Hour)
	defer cache.Close()

	o := newTestOrchestrator(describer, cache)
	product, err := o.AnalyzeProduct(context.Background(), ProductViews{
		Front: "https://img/front.png",
		Back:  "https://img/back.png",
		Side:  "https://img/side.png",
	})
	require.NoError(t, err)
	require.Len(t, product.Views, 2)
	assert.Equal(t, "front", product.Views[0].View)
	assert.Equal(t, "side", product.Views[1].View)
}

func TestAnalyzeProductAllViewsFailed(t *testing.T) {
	describer := &fakeDescriber{errs: map[string]error{
		"https://img/front.png": fmt.Errorf("model unavailable"),
	}}
	cache := store.NewMemoryStore(time.Hour)
	defer cache.Close()

	o := newTestOrchestrator(describer, cache)
	_, err := o.AnalyzeProduct(context.Background(), ProductViews{Front: "https://img/front.png"})
	assert.Error(t, err)
}

func TestAnalyzeProductUsesCache(t *testing.T) {
	describer := &fakeDescriber{responses: map[string]string{
		"https://img/front.png": "Product type: shirt",
	}}
	cache := store.NewMemoryStore(time.Hour)
	defer cache.Close()

	o := newTestOrchestrator(describer, cache)

	first, err := o.AnalyzeProduct(context.Background(), ProductViews{Front: "https://img/front.png"})
	require.NoError(t, err)
	assert.False(t, first.Views[0].Cached)

	second, err := o.AnalyzeProduct(context.Background(), ProductViews{Front: "https://img/front.png"})
	require.NoError(t, err)
	assert.True(t, second.Views[0].Cached)
	assert.Equal(t, first.Views[0].Analysis.ProductType, second.Views[0].Analysis.ProductType)

	describer.mu.Lock()
	defer describer.mu.Unlock()
	assert.Len(t, describer.calls, 1, "cache hit must skip the vision call")
}

func TestAnalyzeProductEmptyResponseOmitsView(t *testing.T) {
	describer := &fakeDescriber{responses: map[string]string{
		"https://img/front.png": "   ",
		"https://img/back.png":  "Product type: shirt\nColors: blue",
	}}
	cache := store.NewMemoryStore(time.Hour)
	defer cache.Close()

	o := newTestOrchestrator(describer, cache)
	product, err := o.AnalyzeProduct(context.Background(), ProductViews{
		Front: "https://img/front.png",
		Back:  "https://img/back.png",
	})
	require.NoError(t, err)
	require.Len(t, product.Views, 1)
	assert.Equal(t, "back", product.Views[0].View)
	assert.False(t, strings.Contains(product.CombinedAnalysis, "[front view]"))
}
