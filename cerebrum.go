// Package cerebrum turns a directory taxonomy of documents into a routed,
// searchable knowledge base.
//
// Source documents live under a four-level taxonomy
// (domain/subject/topic/subtopic). Ingestion converts each document to
// markdown, records it in a content registry keyed by a hash of its
// sanitized title, then chunks and embeds the markdown into a per
// domain/subject vector index. Questions are translated against the
// taxonomy vocabulary, routed to the matching indexes, and answered from
// the retrieved chunks.
//
// Example usage:
//
//	reg, _ := cerebrum.NewSQLiteRegistry("data/registry.db")
//	client := cerebrum.NewOllamaClient("http://localhost:11434")
//
//	pipeline := cerebrum.NewPipeline(cerebrum.PipelineConfig{
//	    Registry:      reg,
//	    Converter:     convert.NewTextConverter(),
//	    Metadata:      convert.NewFileMetadataReader(),
//	    Client:        client,
//	    Embedder:      client,
//	    OpenIndex:     cerebrum.OpenSQLiteIndex,
//	    KnowledgeRoot: "data/knowledgebase",
//	    MarkdownRoot:  "data/storage/markdown",
//	    VectorRoot:    "data/storage/vectorstores",
//	    ChatModel:     "mistral:7b",
//	    EmbedModel:    "qwen3-embedding:4b-q4_K_M",
//	}, nil, nil)
//
//	pipeline.ConvertAll(ctx)
//	pipeline.EmbedAll(ctx)
package cerebrum

import (
	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/index"
	"github.com/cerebrumkb/cerebrum/ingest"
	"github.com/cerebrumkb/cerebrum/llm"
	"github.com/cerebrumkb/cerebrum/markdown"
	"github.com/cerebrumkb/cerebrum/query"
	"github.com/cerebrumkb/cerebrum/registry"
	"github.com/cerebrumkb/cerebrum/retrieval"
	"github.com/cerebrumkb/cerebrum/server"
	"github.com/cerebrumkb/cerebrum/taxonomy"
	"go.uber.org/zap"
)

// Registry aliases
type (
	Registry       = registry.Registry
	RegistryRecord = registry.Record
	Stage          = registry.Stage
)

const (
	StageConverted = registry.StageConverted
	StageEmbedded  = registry.StageEmbedded
)

// NewSQLiteRegistry opens (or creates) a SQLite-backed content registry.
func NewSQLiteRegistry(path string) (*registry.SQLiteRegistry, error) {
	return registry.NewSQLiteRegistry(path)
}

// LLM client aliases
type (
	LLMClient       = llm.Client
	EmbeddingClient = llm.EmbeddingClient
)

// NewOllamaClient creates a client for a local Ollama instance.
func NewOllamaClient(baseURL string) *llm.OllamaClient {
	return llm.NewOllamaClient(baseURL)
}

// NewOpenAIClient creates a client for the OpenAI API.
func NewOpenAIClient(apiKey string) *llm.OpenAIClient {
	return llm.NewOpenAIClient(apiKey)
}

// Index aliases
type (
	IndexStore   = index.Store
	IndexOpener  = index.Opener
	Document     = index.Document
	SearchResult = index.SearchResult
)

// OpenSQLiteIndex opens a per-directory SQLite vector index. It satisfies
// IndexOpener.
func OpenSQLiteIndex(dir string) (index.Store, error) {
	return index.OpenSQLiteStore(dir)
}

// NewMemoryIndex creates an in-memory vector store.
func NewMemoryIndex() *index.MemoryStore {
	return index.NewMemoryStore()
}

// NewPgVectorStore creates a pgvector-backed store shared across collections.
func NewPgVectorStore(dsn string, dimension int) (*index.PgVectorStore, error) {
	return index.NewPgVectorStore(dsn, dimension)
}

// Ingestion aliases
type (
	Pipeline       = ingest.Pipeline
	PipelineConfig = ingest.Config
)

// NewPipeline creates an ingestion pipeline. tokens and logger may be nil.
func NewPipeline(cfg PipelineConfig, tokens *markdown.TokenCounter, logger *zap.Logger) *Pipeline {
	return ingest.NewPipeline(cfg, tokens, logger)
}

// Query aliases
type (
	Router          = query.Router
	TranslatedQuery = core.TranslatedQuery
)

// NewRouter creates a query translation router. logger may be nil.
func NewRouter(client llm.Client, model string, logger *zap.Logger) *Router {
	return query.NewRouter(client, model, logger)
}

// Retrieval aliases
type (
	Engine       = retrieval.Engine
	EngineConfig = retrieval.Config
)

// NewEngine creates a retrieval and answer composition engine. logger may be
// nil.
func NewEngine(cfg EngineConfig, logger *zap.Logger) *Engine {
	return retrieval.NewEngine(cfg, logger)
}

// Taxonomy aliases
type (
	TaxonomyEntry = taxonomy.Entry
	TaxonomyIndex = taxonomy.Index
)

// BuildTaxonomyIndex scans root and returns the closed routing vocabulary.
func BuildTaxonomyIndex(root string) (*taxonomy.Index, []string) {
	idx, stems := taxonomy.BuildIndex(root)
	return idx, stems
}

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
)

// NewServer creates the HTTP server. logger may be nil.
func NewServer(cfg ServerConfig, logger *zap.Logger) *Server {
	return server.New(cfg, logger)
}
