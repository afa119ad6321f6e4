package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchSightAi/internal/analysis"
	"stitchSightAi/internal/editor"
	"stitchSightAi/internal/store"
)

func seedAnalysis(t *testing.T, s store.Store, imageURL, text string) {
	t.Helper()
	parsed := analysis.Parse(text, true)
	require.NoError(t, s.Put(context.Background(), imageURL, parsed, store.Meta{Model: "test"}))
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func TestScoreEditEndpoint(t *testing.T) {
	h := Handler{}
	rec := postJSON(t, h.ScoreEdit, map[string]any{
		"intended": []string{"A1", "B2"},
		"actual":   []string{"A1", "B2"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var score struct {
		Precision int `json:"precision"`
		Accuracy  int `json:"accuracy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 100, score.Precision)
	assert.Equal(t, 100, score.Accuracy)
}

func TestPlanEditUsesCachedGrid(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	defer s.Close()
	seedAnalysis(t, s, "https://img/front.png", "A1: blue shirt sleeve\nB2: shirt chest")

	h := Handler{Store: s}
	rec := postJSON(t, h.PlanEdit, map[string]string{
		"image_url":   "https://img/front.png",
		"instruction": "change the color",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var plan editPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, []string{"A1", "B2"}, plan.AffectedCells)
	assert.Contains(t, plan.ExpandedPrompt, "change the color")
}

func TestPlanEditValidation(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	defer s.Close()
	h := Handler{Store: s}

	rec := postJSON(t, h.PlanEdit, map[string]string{"image_url": "https://img/x.png"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.PlanEdit, map[string]string{"instruction": "do something"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlacementEndpointFallsBackToFreshGrid(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	defer s.Close()
	h := Handler{Store: s}

	rec := postJSON(t, h.SuggestPlacement, map[string]string{
		"image_url":    "https://img/unknown.png",
		"element_type": "text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var placement struct {
		Primary []string `json:"primary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placement))
	assert.Equal(t, []string{"D2", "D3"}, placement.Primary)
}

func TestGetAnalysisNotFound(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	defer s.Close()
	h := Handler{Store: s}

	req := httptest.NewRequest(http.MethodGet, "/?image_url=https://img/missing.png", nil)
	rec := httptest.NewRecorder()
	h.GetAnalysis(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAnalysisReturnsCached(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	defer s.Close()
	seedAnalysis(t, s, "https://img/front.png", "Product type: jacket")

	h := Handler{Store: s}
	req := httptest.NewRequest(http.MethodGet, "/?image_url=https://img/front.png", nil)
	rec := httptest.NewRecorder()
	h.GetAnalysis(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cached store.CachedAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cached))
	assert.Equal(t, "jacket", cached.Analysis.ProductType)
}

type fakeEditor struct {
	lastPrompt string
	err        error
}

func (f *fakeEditor) Edit(_ context.Context, req editor.EditRequest) (editor.EditResult, error) {
	f.lastPrompt = req.Prompt
	if f.err != nil {
		return editor.EditResult{}, f.err
	}
	return editor.EditResult{URL: "https://cdn/edited.png"}, nil
}

func TestApplyEditRunsEditorWithExpandedPrompt(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	defer s.Close()
	seedAnalysis(t, s, "https://img/front.png", "B2: shirt chest\nB3: shirt chest")

	fake := &fakeEditor{}
	h := Handler{Store: s, Editor: fake}
	rec := postJSON(t, h.ApplyEdit, map[string]string{
		"image_url":   "https://img/front.png",
		"instruction": "add a monogram to the chest",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, fake.lastPrompt, "[chest region covers")

	var resp applyEditResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://cdn/edited.png", resp.Result.URL)
}

func TestApplyEditWithoutEditor(t *testing.T) {
	h := Handler{}
	rec := postJSON(t, h.ApplyEdit, map[string]string{
		"image_url":   "https://img/front.png",
		"instruction": "brighten",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplyEditPropagatesEditorFailure(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	defer s.Close()

	h := Handler{Store: s, Editor: &fakeEditor{err: fmt.Errorf("model down")}}
	rec := postJSON(t, h.ApplyEdit, map[string]string{
		"image_url":   "https://img/front.png",
		"instruction": "brighten",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
