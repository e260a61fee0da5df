package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/cerebrumkb/cerebrum/config"
	"github.com/cerebrumkb/cerebrum/convert"
	"github.com/cerebrumkb/cerebrum/index"
	"github.com/cerebrumkb/cerebrum/ingest"
	"github.com/cerebrumkb/cerebrum/llm"
	"github.com/cerebrumkb/cerebrum/markdown"
	"github.com/cerebrumkb/cerebrum/query"
	"github.com/cerebrumkb/cerebrum/registry"
	"github.com/cerebrumkb/cerebrum/retrieval"
	"github.com/cerebrumkb/cerebrum/server"
	"github.com/cerebrumkb/cerebrum/workers"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Best-effort: a missing .env is fine.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(getEnvOr("CEREBRUM_CONFIG", "config.yaml"))
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	reg, err := registry.NewSQLiteRegistry(cfg.Paths.Registry)
	if err != nil {
		logger.Fatal("open registry", zap.Error(err))
	}
	defer reg.Close()

	client, embedder, err := buildClients(cfg)
	if err != nil {
		logger.Fatal("init llm clients", zap.Error(err))
	}

	opener, err := buildOpener(cfg)
	if err != nil {
		logger.Fatal("init index backend", zap.Error(err))
	}

	tokens, err := markdown.NewTokenCounter()
	if err != nil {
		logger.Warn("token counting disabled", zap.Error(err))
		tokens = nil
	}

	pipeline := ingest.NewPipeline(ingest.Config{
		Registry:      reg,
		Converter:     convert.NewTextConverter(),
		Metadata:      convert.NewFileMetadataReader(),
		Client:        client,
		Embedder:      embedder,
		OpenIndex:     opener,
		KnowledgeRoot: cfg.Paths.Knowledgebase,
		MarkdownRoot:  cfg.Paths.Markdown,
		VectorRoot:    cfg.Paths.Vectorstores,
		ChatModel:     cfg.Models.Chat,
		EmbedModel:    cfg.Models.Embed,
	}, tokens, logger.Named("ingest"))

	router := query.NewRouter(client, cfg.Models.Chat, logger.Named("query"))
	engine := retrieval.NewEngine(retrieval.Config{
		OpenIndex:  opener,
		Client:     client,
		Embedder:   embedder,
		ChatModel:  cfg.Models.Chat,
		EmbedModel: cfg.Models.Embed,
		FetchK:     cfg.Retrieval.FetchK,
		Summarize:  cfg.Retrieval.Summarize,
	}, logger.Named("retrieval"))

	pool := workers.NewPool(cfg.Server.Workers, logger.Named("workers"))
	defer pool.Shutdown()

	srv := server.New(server.Config{
		Registry:   reg,
		Pipeline:   pipeline,
		Router:     router,
		Engine:     engine,
		Pool:       pool,
		VectorRoot: cfg.Paths.Vectorstores,
		TopK:       cfg.Retrieval.TopK,
		ContextK:   cfg.Retrieval.ContextK,
	}, logger.Named("server"))

	logger.Info("starting cerebrum server", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Handler()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func buildClients(cfg *config.Config) (llm.Client, llm.EmbeddingClient, error) {
	switch cfg.Models.Provider {
	case "ollama":
		c := llm.NewOllamaClient(cfg.Models.BaseURL)
		return c, c, nil
	case "openai":
		c := llm.NewOpenAIClientWithConfig(llm.ClientConfig{
			APIKey:  os.Getenv(cfg.Models.APIKeyEnv),
			BaseURL: cfg.Models.BaseURL,
		})
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown model provider %q", cfg.Models.Provider)
	}
}

func buildOpener(cfg *config.Config) (index.Opener, error) {
	switch cfg.Index.Backend {
	case "sqlite":
		return index.OpenSQLiteStore, nil
	case "pgvector":
		store, err := index.NewPgVectorStore(cfg.Index.PostgresDSN, cfg.Models.EmbedDim)
		if err != nil {
			return nil, err
		}
		return index.NewPgVectorOpener(store), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
