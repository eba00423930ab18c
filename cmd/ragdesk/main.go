// Command ragdesk answers questions about local documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
	ollamallm "github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragdesk/internal/config/env"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/extractors"
	"github.com/custodia-labs/ragdesk/internal/logger"
	"github.com/custodia-labs/ragdesk/internal/postprocessors"
	"github.com/custodia-labs/ragdesk/internal/routing"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	overrides, err := env.Load()
	if err != nil {
		return err
	}
	if overrides.Verbose {
		logger.SetVerbose(true)
	}

	configStore, err := file.NewConfigStore(overrides.DataDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	promptDir := ""
	if overrides.DataDir != "" {
		promptDir = filepath.Join(overrides.DataDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(), overrides.Apply)
	settings := settingsService.Get()
	if err := settingsService.Validate(); err != nil {
		logger.Warn("Settings: %v", err)
	}

	table, err := routing.Load(settings.Router.CategoriesFile)
	if err != nil {
		logger.Warn("Router: %v; using built-in categories", err)
		table = domain.DefaultCategoryTable()
	}

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	pipeline, err := postprocessors.BuildPipeline(processors, settings.Chunker)
	if err != nil {
		return fmt.Errorf("chunker settings: %w", err)
	}

	index := openIndex(ctx, settings.Index, overrides.DataDir)
	if index != nil {
		defer index.Close()
	}

	history := openHistory(overrides.DataDir)

	aiServices := ai.Init(settings)
	defer aiServices.Close()

	retriever := services.NewRetriever(aiServices.EmbeddingService, index, time.Duration(settings.Embedding.TimeoutSeconds)*time.Second)

	var models driven.ModelLister
	if settings.LLM.Provider == domain.AIProviderOllama || settings.Embedding.Provider == domain.AIProviderOllama {
		baseURL := settings.LLM.BaseURL
		if settings.LLM.Provider != domain.AIProviderOllama {
			baseURL = settings.Embedding.BaseURL
		}
		models = ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: baseURL})
	}

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Ingest: services.NewIngestService(extractors.NewDefaultRegistry(), pipeline, retriever, index),
		Ask: services.NewAskService(index, retriever, services.NewRouter(table),
			aiServices.LLMService, prompts, history, services.AskConfigFrom(settings)),
		Documents: services.NewDocumentService(index),
		History:   services.NewHistoryService(history),
		Settings:  settingsService,
		Models:    models,
	})

	return cli.Execute(ctx)
}

// openIndex opens the configured backend. A failure is logged and nil is
// returned so commands that need the index report it as unavailable.
func openIndex(ctx context.Context, cfg domain.IndexSettings, dir string) driven.VectorIndex {
	switch cfg.Backend {
	case domain.IndexBackendPostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Warn("Index: %v", err)
			return nil
		}
		return store
	case domain.IndexBackendMemory:
		logger.Warn("Index: memory backend, nothing is kept after exit")
		return memory.NewVectorIndex()
	default:
		store, err := sqlite.NewStore(dataDir(dir))
		if err != nil {
			logger.Warn("Index: %v", err)
			return nil
		}
		return store
	}
}

// openHistory opens the interaction log file. An unusable data directory
// downgrades the log to memory rather than failing every command.
func openHistory(dir string) driven.HistoryStore {
	store, err := jsonfile.NewHistoryStore(dataDir(dir))
	if err != nil {
		logger.Warn("History: %v; keeping this session's log in memory", err)
		return memory.NewHistoryStore()
	}
	return store
}

// dataDir maps the RAGDESK_DATA_DIR override onto the stores' data
// directory. Empty selects their defaults.
func dataDir(root string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(root, "data")
}

