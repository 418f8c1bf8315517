package bootstrap

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"legalbrief-backend/internal/documents"
	"legalbrief-backend/internal/extract"
	"legalbrief-backend/internal/llm"
	"legalbrief-backend/internal/llm/openai"
	"legalbrief-backend/internal/pipeline"
	"legalbrief-backend/internal/shared/config"
	"legalbrief-backend/internal/shared/server"
	"legalbrief-backend/internal/shared/session"
	"legalbrief-backend/internal/shared/storage/object"
	localstore "legalbrief-backend/internal/shared/storage/object/local"
	"legalbrief-backend/internal/shared/telemetry"
	"legalbrief-backend/internal/summarize"
	"legalbrief-backend/internal/sweeper"
)

// App holds shared dependencies built from configuration.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	Sessions         *session.Manager
	Store            object.ObjectStore
	DocumentsRepo    documents.Repo
	LLM              llm.Client
	Summarizer       *summarize.Summarizer
	Processor        *pipeline.Processor
	Runner           *pipeline.Runner
	Sweeper          *sweeper.Sweeper
	DocumentsService *documents.Service
	DocumentsHandler *documents.Handler
}

// Build prepares shared dependencies and the router. The sweeper is created
// but not started; callers decide its lifecycle.
func Build(cfg config.Config) (*App, error) {
	store := localstore.New(cfg.TempDir)
	repo := documents.NewMemoryRepo()
	sessions := session.NewManager(time.Duration(cfg.SessionTTLHours) * time.Hour)

	llmClient, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, err
	}

	summarizer := summarize.NewSummarizer(llmClient)
	processor := &pipeline.Processor{
		Docs:       repo,
		Store:      store,
		Extractor:  extract.FileExtractor{},
		Summarizer: summarizer,
	}
	runner := pipeline.NewRunner(processor, cfg.PipelineWorkers)

	docSvc := &documents.Service{
		Repo:           repo,
		Store:          store,
		Tasks:          runner,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}
	docHandler := documents.NewHandler(docSvc)

	app := &App{
		Config:           cfg,
		Sessions:         sessions,
		Store:            store,
		DocumentsRepo:    repo,
		LLM:              llmClient,
		Summarizer:       summarizer,
		Processor:        processor,
		Runner:           runner,
		Sweeper:          sweeper.New(repo, sessions, time.Duration(cfg.DocExpiryHours)*time.Hour),
		DocumentsService: docSvc,
		DocumentsHandler: docHandler,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Sessions:        sessions,
		DocumentHandler: docHandler,
	})

	return app, nil
}

// Shutdown stops background work and flushes logs.
func (a *App) Shutdown(ctx context.Context) error {
	a.Sweeper.Stop()
	err := a.Runner.Shutdown(ctx)
	telemetry.Sync()
	return err
}
