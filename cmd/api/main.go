package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stitchSightAi/internal/api"
	"stitchSightAi/internal/config"
	"stitchSightAi/internal/editor"
	"stitchSightAi/internal/events"
	"stitchSightAi/internal/media"
	"stitchSightAi/internal/multiview"
	"stitchSightAi/internal/server"
	"stitchSightAi/internal/store"
	"stitchSightAi/internal/vision"
)

func main() {
	cfg := config.FromEnv()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := context.Background()
	analysisStore, err := store.NewStore(ctx, cfg.DatabaseURL, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("failed to init analysis store: %v", err)
	}
	defer analysisStore.Close()

	var uploader media.Uploader
	if cfg.Media.Bucket != "" && cfg.Media.Region != "" {
		uploader, err = media.NewUploader(ctx, media.Config{
			Bucket:         cfg.Media.Bucket,
			Region:         cfg.Media.Region,
			Endpoint:       cfg.Media.Endpoint,
			PublicURL:      cfg.Media.PublicURL,
			KeyPrefix:      cfg.Media.KeyPrefix,
			ForcePathStyle: cfg.Media.ForcePathStyle,
		})
		if err != nil {
			log.Fatalf("failed to init media uploader: %v", err)
		}
	} else {
		uploader, err = media.NewLocalUploader("")
		if err != nil {
			log.Fatalf("failed to init local media storage: %v", err)
		}
		log.Println("media uploader: using local temp storage (S3 config missing)")
	}

	var describer vision.Describer
	var model string
	if cfg.AI.Provider == "openai" && cfg.AI.OpenAIAPIKey != "" {
		describer = vision.NewOpenAIDescriber(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel, cfg.AI.RequestTimeout)
		model = cfg.AI.OpenAIModel
		log.Println("vision describer ready: OpenAI")
	} else if cfg.AI.GeminiAPIKey != "" {
		describer = vision.NewGeminiDescriber(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.RequestTimeout, nil)
		model = cfg.AI.GeminiModel
		log.Println("vision describer ready: Gemini")
	} else {
		log.Fatal("no vision provider configured: set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	eventBroker := events.NewBroker()

	orchestrator := multiview.NewOrchestrator(describer, analysisStore, multiview.Options{
		Fetcher:  vision.NewFetcher(cfg.AI.RequestTimeout),
		Events:   eventBroker,
		Logger:   logger,
		Interval: cfg.AI.RequestInterval,
		Model:    model,
	})

	var imageEditor editor.Editor
	if cfg.Imagen.ProjectID != "" && cfg.Imagen.Location != "" && cfg.Imagen.Model != "" {
		imageEditor = editor.NewVertexImagen(editor.VertexImagenConfig{
			ProjectID:          cfg.Imagen.ProjectID,
			Location:           cfg.Imagen.Location,
			Model:              cfg.Imagen.Model,
			APIKey:             cfg.Imagen.APIKey,
			ServiceAccount:     cfg.Imagen.ServiceAccount,
			ServiceAccountJSON: cfg.Imagen.ServiceAccountJSON,
		}, uploader)
		log.Println("image editor ready: Vertex Imagen")
	} else if cfg.AI.GeminiAPIKey != "" {
		imageEditor = editor.NewGeminiEditor(cfg.AI.GeminiAPIKey, cfg.AI.EditModel, cfg.AI.RequestTimeout, uploader)
		log.Println("image editor ready: Gemini")
	} else {
		log.Println("image editor: disabled (no backend configured)")
	}

	handler := api.Handler{
		Orchestrator: orchestrator,
		Store:        analysisStore,
		Editor:       imageEditor,
		Events:       eventBroker,
		Logger:       logger,
	}

	srv := server.New(cfg.Port, handler)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		log.Println("shutting down server...")
		if err := srv.Close(); err != nil {
			log.Printf("server close error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
