// Package api exposes the analysis and edit-targeting core over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"stitchSightAi/internal/analysis"
	"stitchSightAi/internal/editor"
	"stitchSightAi/internal/edits"
	"stitchSightAi/internal/events"
	"stitchSightAi/internal/grid"
	"stitchSightAi/internal/multiview"
	"stitchSightAi/internal/store"
)

// Handler bundles the collaborators behind the HTTP endpoints.
type Handler struct {
	Orchestrator *multiview.Orchestrator
	Store        store.Store
	Editor       editor.Editor
	Events       *events.Broker
	Logger       *slog.Logger
}

// Analyze handles POST /api/analysis.
func (h Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req multiview.ProductViews
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Front) == "" && strings.TrimSpace(req.Back) == "" && strings.TrimSpace(req.Side) == "" {
		http.Error(w, "at least one view URL is required", http.StatusBadRequest)
		return
	}

	product, err := h.Orchestrator.AnalyzeProduct(r.Context(), req)
	if err != nil {
		http.Error(w, "analysis unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, product)
}

// GetAnalysis handles GET /api/analysis.
func (h Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	imageURL := strings.TrimSpace(r.URL.Query().Get("image_url"))
	if imageURL == "" {
		http.Error(w, "image_url is required", http.StatusBadRequest)
		return
	}

	cached, err := h.Store.Get(r.Context(), imageURL)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "no analysis for this image", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, cached)
}

type editPlanRequest struct {
	ImageURL    string `json:"image_url"`
	Instruction string `json:"instruction"`
}

type editPlanResponse struct {
	ExpandedPrompt string   `json:"expanded_prompt"`
	AffectedCells  []string `json:"affected_cells"`
}

// PlanEdit handles POST /api/edits/plan: it maps a free-text instruction
// onto grid cells using the cached analysis for the image.
func (h Handler) PlanEdit(w http.ResponseWriter, r *http.Request) {
	req, g, ok := h.decodeEditRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, editPlanResponse{
		ExpandedPrompt: edits.ExpandPrompt(req.Instruction, g),
		AffectedCells:  edits.AffectedCells(req.Instruction, g),
	})
}

type applyEditResponse struct {
	editPlanResponse
	Result editor.EditResult `json:"result"`
}

// ApplyEdit handles POST /api/edits/apply: plan the edit, then run it
// through the configured image-edit model.
func (h Handler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	if h.Editor == nil {
		http.Error(w, "image editing inactive", http.StatusServiceUnavailable)
		return
	}
	req, g, ok := h.decodeEditRequest(w, r)
	if !ok {
		return
	}

	plan := editPlanResponse{
		ExpandedPrompt: edits.ExpandPrompt(req.Instruction, g),
		AffectedCells:  edits.AffectedCells(req.Instruction, g),
	}

	result, err := h.Editor.Edit(r.Context(), editor.EditRequest{
		Prompt:       plan.ExpandedPrompt,
		BaseImageURL: req.ImageURL,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.publish(events.Event{ImageURL: req.ImageURL, Stage: "edited", Detail: result.URL})
	writeJSON(w, applyEditResponse{editPlanResponse: plan, Result: result})
}

func (h Handler) decodeEditRequest(w http.ResponseWriter, r *http.Request) (editPlanRequest, grid.Grid, bool) {
	var req editPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, grid.Grid{}, false
	}
	if strings.TrimSpace(req.Instruction) == "" {
		http.Error(w, "instruction is required", http.StatusBadRequest)
		return req, grid.Grid{}, false
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		http.Error(w, "image_url is required", http.StatusBadRequest)
		return req, grid.Grid{}, false
	}
	return req, h.gridFor(r, req.ImageURL), true
}

type placementRequest struct {
	ImageURL    string `json:"image_url"`
	ElementType string `json:"element_type"`
}

// SuggestPlacement handles POST /api/placement.
func (h Handler) SuggestPlacement(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ElementType) == "" {
		http.Error(w, "element_type is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, edits.SuggestPlacement(req.ElementType, h.gridFor(r, req.ImageURL)))
}

type scoreRequest struct {
	Intended []string `json:"intended"`
	Actual   []string `json:"actual"`
}

// ScoreEdit handles POST /api/score.
func (h Handler) ScoreEdit(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, edits.ScoreEdit(req.Intended, req.Actual))
}

// StreamEvents handles GET /api/events as an SSE stream.
func (h Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	if h.Events == nil {
		http.Error(w, "events inactive", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Events.Subscribe()
	defer h.Events.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// gridFor loads the parsed grid for an image from the cache, falling back
// to an unpopulated grid when no analysis exists. The mapper and advisor
// still work on an unpopulated grid, just with weaker content heuristics.
func (h Handler) gridFor(r *http.Request, imageURL string) grid.Grid {
	if strings.TrimSpace(imageURL) == "" {
		return grid.New()
	}
	cached, err := h.Store.Get(r.Context(), imageURL)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && h.Logger != nil {
			h.Logger.Warn("analysis cache unavailable", "error", err)
		}
		return grid.New()
	}
	return gridFromAnalysis(cached.Analysis)
}

func gridFromAnalysis(a analysis.ImageAnalysis) grid.Grid {
	if a.SpatialGrid == nil || len(a.SpatialGrid.Squares) == 0 {
		return grid.New()
	}
	g := grid.New()
	for _, cell := range a.SpatialGrid.Squares {
		g.SetContent(cell.ID, cell.Content)
	}
	return g
}

func (h Handler) publish(evt events.Event) {
	if h.Events != nil {
		h.Events.Publish(evt)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
	}
}
