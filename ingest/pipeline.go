// Package ingest drives documents through the conversion and embedding
// stages, gated by the content registry so re-runs never redo finished work.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cerebrumkb/cerebrum/convert"
	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/index"
	"github.com/cerebrumkb/cerebrum/llm"
	"github.com/cerebrumkb/cerebrum/markdown"
	"github.com/cerebrumkb/cerebrum/monitor"
	"github.com/cerebrumkb/cerebrum/registry"
	"github.com/cerebrumkb/cerebrum/taxonomy"
	"go.uber.org/zap"
)

const walkDepth = 4

// Config wires the pipeline's collaborators and roots. Registry, Converter,
// Client, Embedder and OpenIndex are required.
type Config struct {
	Registry  registry.Registry
	Converter convert.Converter
	Metadata  convert.MetadataReader
	Client    llm.Client
	Embedder  llm.EmbeddingClient
	OpenIndex index.Opener

	KnowledgeRoot string
	MarkdownRoot  string
	VectorRoot    string

	ChatModel  string
	EmbedModel string
}

// Pipeline is the ingestion state machine: Discovered -> Converted ->
// Embedded, one document at a time. A failure in one document is logged and
// the batch moves on.
type Pipeline struct {
	registry  registry.Registry
	converter convert.Converter
	metadata  convert.MetadataReader
	client    llm.Client
	embedder  llm.EmbeddingClient
	openIndex index.Opener
	tokens    *markdown.TokenCounter

	knowledgeRoot string
	markdownRoot  string
	vectorRoot    string

	chatModel  string
	embedModel string

	logger *zap.Logger
}

// NewPipeline creates a pipeline. tokens and logger may be nil.
func NewPipeline(cfg Config, tokens *markdown.TokenCounter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	metadata := cfg.Metadata
	if metadata == nil {
		metadata = convert.NewFileMetadataReader()
	}
	return &Pipeline{
		registry:      cfg.Registry,
		converter:     cfg.Converter,
		metadata:      metadata,
		client:        cfg.Client,
		embedder:      cfg.Embedder,
		openIndex:     cfg.OpenIndex,
		tokens:        tokens,
		knowledgeRoot: cfg.KnowledgeRoot,
		markdownRoot:  cfg.MarkdownRoot,
		vectorRoot:    cfg.VectorRoot,
		chatModel:     cfg.ChatModel,
		embedModel:    cfg.EmbedModel,
		logger:        logger,
	}
}

// ConvertAll walks the knowledge root and converts every document that has
// not completed the converted stage. Safe to re-run at any time.
func (p *Pipeline) ConvertAll(ctx context.Context) monitor.BatchMetrics {
	collector := monitor.NewInMemoryCollector(string(registry.StageConverted))

	for entry := range taxonomy.Walk(p.knowledgeRoot, walkDepth) {
		start := time.Now()
		skipped, err := p.convertEntry(ctx, entry)

		m := monitor.DocumentMetrics{
			Doc:      entry.Name,
			Stage:    string(registry.StageConverted),
			Duration: time.Since(start),
			Skipped:  skipped,
			Success:  err == nil,
		}
		if err != nil {
			m.Error = err.Error()
			p.logger.Warn("conversion failed",
				zap.String("file", entry.Name), zap.Error(err))
		}
		collector.Record(m)

		if ctx.Err() != nil {
			break
		}
	}

	return collector.Flush()
}

// convertEntry runs the Discovered -> Converted transition for one file.
func (p *Pipeline) convertEntry(ctx context.Context, entry taxonomy.Entry) (skipped bool, err error) {
	raw, err := p.metadata.ReadMetadata(ctx, entry.Path)
	if err != nil {
		// Metadata extraction is best-effort.
		p.logger.Debug("metadata extraction failed", zap.String("file", entry.Name), zap.Error(err))
		raw = map[string]string{}
	}

	meta, err := p.sanitizeMetadata(ctx, entry.Stem, raw)
	if err != nil {
		return false, core.NewDocumentError("sanitize", entry.Name, err)
	}

	hash, err := p.registry.Register(ctx, entry.Stem, meta.Title)
	if err != nil {
		return false, core.NewDocumentError("register", entry.Name, err)
	}

	// Registration is cheap; the converted check must still happen so the
	// costly external conversion is never redone.
	done, err := p.registry.IsStageComplete(ctx, hash, registry.StageConverted)
	if err != nil {
		return false, core.NewDocumentError("check converted", entry.Name, err)
	}
	if done {
		p.logger.Debug("already converted", zap.String("file", entry.Name))
		return true, nil
	}

	body, err := p.converter.Convert(ctx, entry.Path)
	if err != nil {
		if !errors.Is(err, core.ErrConversion) {
			err = fmt.Errorf("%w: %v", core.ErrConversion, err)
		}
		return false, core.NewDocumentError("convert", entry.Name, err)
	}

	front, err := markdown.RenderFrontMatter(meta)
	if err != nil {
		return false, core.NewDocumentError("front matter", entry.Name, err)
	}

	target := core.TaxonomyPath{Domain: meta.Domain, Subject: meta.Subject}
	dir := target.Dir(p.markdownRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, core.NewDocumentError("write markdown", entry.Name, err)
	}
	mdPath := filepath.Join(dir, meta.Title+".md")
	if err := os.WriteFile(mdPath, []byte(front+body), 0644); err != nil {
		return false, core.NewDocumentError("write markdown", entry.Name, err)
	}

	if err := p.registry.MarkStageComplete(ctx, hash, registry.StageConverted); err != nil {
		return false, core.NewDocumentError("mark converted", entry.Name, err)
	}

	p.logger.Info("converted",
		zap.String("file", entry.Name),
		zap.String("title", meta.Title),
		zap.String("domain", meta.Domain),
		zap.String("subject", meta.Subject))
	return false, nil
}

// EmbedAll walks the markdown tree and embeds every document that has not
// completed the embedded stage. It runs independently of conversion and may
// lag behind it.
func (p *Pipeline) EmbedAll(ctx context.Context) monitor.BatchMetrics {
	collector := monitor.NewInMemoryCollector(string(registry.StageEmbedded))

	for entry := range taxonomy.Walk(p.markdownRoot, walkDepth) {
		start := time.Now()
		skipped, chunks, tokens, err := p.embedEntry(ctx, entry, collector)

		m := monitor.DocumentMetrics{
			Doc:      entry.Name,
			Stage:    string(registry.StageEmbedded),
			Chunks:   chunks,
			Tokens:   tokens,
			Duration: time.Since(start),
			Skipped:  skipped,
			Success:  err == nil,
		}
		if err != nil {
			m.Error = err.Error()
			p.logger.Warn("embedding failed",
				zap.String("file", entry.Name), zap.Error(err))
		}
		collector.Record(m)

		if ctx.Err() != nil {
			break
		}
	}

	return collector.Flush()
}

// embedEntry runs the Converted -> Embedded transition for one markdown
// file. A crash mid-way restarts the document from chunk 1; deterministic
// chunk IDs make the rewrite idempotent at the index.
func (p *Pipeline) embedEntry(ctx context.Context, entry taxonomy.Entry, collector monitor.Collector) (skipped bool, chunks, tokens int, err error) {
	if entry.Ext != ".md" {
		return true, 0, 0, nil
	}
	target := core.TaxonomyPath{Domain: entry.Domain, Subject: entry.Subject}
	if !target.Valid() {
		return false, 0, 0, core.NewDocumentError("embed", entry.Name,
			fmt.Errorf("markdown file outside domain/subject layout"))
	}

	// Markdown added out-of-band still gets a registry row so its embedded
	// flag has somewhere to live.
	hash, err := p.registry.Register(ctx, entry.Stem, entry.Stem)
	if err != nil {
		return false, 0, 0, core.NewDocumentError("register", entry.Name, err)
	}

	done, err := p.registry.IsStageComplete(ctx, hash, registry.StageEmbedded)
	if err != nil {
		return false, 0, 0, core.NewDocumentError("check embedded", entry.Name, err)
	}
	if done {
		p.logger.Debug("already embedded", zap.String("file", entry.Name))
		return true, 0, 0, nil
	}

	raw, err := os.ReadFile(entry.Path)
	if err != nil {
		return false, 0, 0, core.NewDocumentError("read markdown", entry.Name, err)
	}

	parts := markdown.Split(markdown.StripFrontMatter(string(raw)))
	p.tokens.Annotate(parts)

	store, err := p.openIndex(target.Dir(p.vectorRoot))
	if err != nil {
		return false, 0, 0, core.NewDocumentError("open index", entry.Name, err)
	}
	defer store.Close()

	collection := target.Collection()
	for i, chunk := range parts {
		resp, err := p.embedder.Embed(ctx, p.embedModel, chunk.Text)
		if err != nil {
			return false, i, tokens, core.NewDocumentError("embed chunk", entry.Name, err)
		}

		doc := index.Document{
			ID:        fmt.Sprintf("%s-%04d", entry.Stem, i),
			Content:   chunk.Text,
			Embedding: resp.Embedding,
			Metadata: map[string]any{
				"source":   entry.Stem,
				"headings": chunk.Headings,
				"tokens":   chunk.Tokens,
			},
		}
		if err := store.Upsert(ctx, collection, []index.Document{doc}); err != nil {
			return false, i, tokens, core.NewDocumentError("index chunk", entry.Name, err)
		}

		tokens += chunk.Tokens
		collector.Progress(entry.Stem, i+1, len(parts))
		p.logger.Debug("embedded chunk",
			zap.String("file", entry.Name),
			zap.Int("chunk", i+1),
			zap.Int("total", len(parts)))
	}

	if err := p.registry.MarkStageComplete(ctx, hash, registry.StageEmbedded); err != nil {
		return false, len(parts), tokens, core.NewDocumentError("mark embedded", entry.Name, err)
	}

	p.logger.Info("embedded",
		zap.String("file", entry.Name),
		zap.Int("chunks", len(parts)),
		zap.String("collection", collection))
	return false, len(parts), tokens, nil
}

// ProcessOne pushes a single document through both stages immediately, e.g.
// after an upload. It shares the registry with the background batches, so
// the two paths can never duplicate each other's work.
func (p *Pipeline) ProcessOne(ctx context.Context, path string) error {
	entry, err := taxonomy.EntryFor(p.knowledgeRoot, path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}

	if _, err := p.convertEntry(ctx, entry); err != nil {
		return err
	}

	// The markdown file now exists under the sanitized title; embed just
	// that one.
	rec, err := p.findBySource(ctx, entry.Stem)
	if err != nil {
		return err
	}
	mdEntry, err := p.markdownEntryFor(rec)
	if err != nil {
		return core.NewDocumentError("locate markdown", entry.Name, err)
	}

	collector := monitor.NewNoOpCollector()
	_, _, _, err = p.embedEntry(ctx, mdEntry, collector)
	return err
}

func (p *Pipeline) findBySource(ctx context.Context, originalName string) (registry.Record, error) {
	records, err := p.registry.List(ctx)
	if err != nil {
		return registry.Record{}, err
	}
	for _, rec := range records {
		if rec.OriginalName == originalName {
			return rec, nil
		}
	}
	return registry.Record{}, fmt.Errorf("%q: %w", originalName, registry.ErrNotFound)
}

// markdownEntryFor locates the converted markdown file for a registry record
// by scanning the markdown tree for its sanitized stem.
func (p *Pipeline) markdownEntryFor(rec registry.Record) (taxonomy.Entry, error) {
	for entry := range taxonomy.Walk(p.markdownRoot, walkDepth) {
		if entry.Stem == rec.SanitizedName && entry.Ext == ".md" {
			return entry, nil
		}
	}
	return taxonomy.Entry{}, fmt.Errorf("markdown for %q not found", rec.SanitizedName)
}
