package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ingestd/ingestd/internal/attrmatch"
	"github.com/ingestd/ingestd/internal/capability"
	"github.com/ingestd/ingestd/internal/classify"
	"github.com/ingestd/ingestd/internal/detector"
	"github.com/ingestd/ingestd/internal/docingest"
	"github.com/ingestd/ingestd/internal/model"
	"github.com/ingestd/ingestd/internal/rows"
	"github.com/ingestd/ingestd/internal/schema"
	"github.com/ingestd/ingestd/internal/sqlexec"
	"github.com/ingestd/ingestd/internal/vectorwriter"
)

// sniffPrefixSize bounds the read used for the modality detector's
// content-based fallback (mirrors internal/detector.sniffPrefixSize).
const sniffPrefixSize = 4096

// Dependencies bundles everything an Orchestrator routes work through. All
// fields except Executor, Catalog, and Ingestor may be nil: an absent
// Embedder/Vectors disables embedding, leaving graph_nodes empty.
type Dependencies struct {
	Executor      *sqlexec.Executor
	Catalog       schema.Catalog
	Ingestor      *docingest.Ingestor
	Vectors       *vectorwriter.Writer
	Embedder      capability.Embedder
	DefaultTenant string
	Logger        zerolog.Logger
}

// Orchestrator is the single entry point that resolves a file's modality,
// routes it to the relational or document path, and always returns a
// uniform Envelope.
type Orchestrator struct {
	deps Dependencies
}

// New constructs an Orchestrator.
func New(deps Dependencies) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// ProcessFile resolves path's modality, routes it through the relational or
// document ingestion path, and reports the outcome as a uniform envelope —
// never returning a Go error itself; failures are reported via the
// envelope's status/error fields.
func (o *Orchestrator) ProcessFile(ctx context.Context, path string, tenantID string, hints Hints) (Envelope, error) {
	if err := ctx.Err(); err != nil {
		return errorEnvelope("", wrapf(ErrCancelled, "%w", err)), nil
	}

	tenant := tenantID
	if tenant == "" {
		tenant = o.deps.DefaultTenant
	}

	originalName := filepath.Base(path)
	extension := filepath.Ext(originalName)

	sizeBytes, prefix, err := statAndSniff(path)
	if err != nil {
		return errorEnvelope("", wrapf(ErrIO, "reading %q: %w", path, err)), nil
	}

	fineModality := resolveModality(path, hints.Modality, prefix)
	coarseModality := detector.CoarseModality(fineModality, "")

	file := fileInput{
		tenant:       tenant,
		path:         path,
		originalName: originalName,
		extension:    extension,
		sizeBytes:    sizeBytes,
		coarse:       coarseModality,
		hints:        hints,
	}

	if fineModality == detector.Media || coarseModality == "binary" {
		return o.runDocumentPath(ctx, file, "")
	}

	input, extractErr := o.buildClassifyInput(ctx, fineModality, path)
	if extractErr != nil {
		return errorEnvelope(coarseModality, extractErr), nil
	}

	result := classify.Classify(input)
	if result.Classification == "NoSQL" {
		return o.runDocumentPath(ctx, file, "")
	}

	return o.runRelationalPath(ctx, file, fineModality)
}

// fileInput carries the resolved per-file context both routing paths need.
type fileInput struct {
	tenant       string
	path         string
	originalName string
	extension    string
	sizeBytes    int64
	coarse       string
	hints        Hints
}

// resolveModality honors an explicit hint (it must name one of the
// detector's fine-grained tags) and otherwise defers to content detection.
func resolveModality(path, hint string, prefix []byte) detector.Modality {
	if hint != "" {
		return detector.Modality(hint)
	}
	return detector.Detect(path, "", prefix)
}

func statAndSniff(path string) (int64, []byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	buf := make([]byte, sniffPrefixSize)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, nil, err
	}
	return info.Size(), buf[:n], nil
}

// buildClassifyInput dispatches to rows.Extract for the five structured
// fine modalities (reusing that parse for classification) or reads the raw
// text content directly for Kind == KindText.
func (o *Orchestrator) buildClassifyInput(ctx context.Context, fineModality detector.Modality, path string) (classify.Input, error) {
	if kind, ok := structuredKind[fineModality]; ok {
		result, err := rows.Extract(ctx, path, fineModality)
		if err != nil {
			// rows.ParseError already carries the "parse/<format>" prefix;
			// wrapping it again would double it up.
			return classify.Input{}, err
		}
		return classifyInputFromRows(kind, result), nil
	}

	content, err := readTextContent(path)
	if err != nil {
		return classify.Input{}, wrapf(ErrIO, "reading %q: %w", path, err)
	}
	return classifyInputFromText(content), nil
}

// runDocumentPath delegates to the document ingestor, then the embedding
// writer when an embedder is configured. preExtractedText, when non-empty,
// is registered directly instead of invoking the text extractor — the
// path taken for a tabular row's catalog-only entry.
func (o *Orchestrator) runDocumentPath(ctx context.Context, file fileInput, preExtractedText string) (Envelope, error) {
	if o.deps.Ingestor == nil {
		return errorEnvelope(file.coarse, wrapf(ErrStore, "document ingestor not configured")), nil
	}

	in := docingest.Input{
		TenantID:       file.tenant,
		OriginalName:   file.originalName,
		Extension:      file.extension,
		SizeBytes:      file.sizeBytes,
		Modality:       file.coarse,
		Text:           preExtractedText,
		CollectionHint: file.hints.Collection,
	}
	if preExtractedText == "" {
		in.Path = file.path
	}
	if file.hints.MetadataText != "" {
		in.Extra = map[string]any{"metadata_text": file.hints.MetadataText}
	}

	result, err := o.deps.Ingestor.Ingest(ctx, in)
	if err != nil {
		return errorEnvelope(file.coarse, wrapf(ErrExtract, "%w", err)), nil
	}

	graphNodes := o.embedAndUpsert(ctx, result.File, result.Chunks)

	var plan *StoragePlan
	if result.StorageURI != "" {
		plan = &StoragePlan{Path: result.StorageURI}
	}

	return Envelope{
		Status:     StatusCompleted,
		FileID:     result.File.FileID,
		Collection: result.File.CollectionHint,
		Modality:   file.coarse,
		ChunkCount: len(result.Chunks),
		GraphNodes: graphNodes,
		MongoCollections: MongoCollections{
			Files:  "files",
			Chunks: result.File.CollectionHint,
		},
		StoragePlan: plan,
	}, nil
}

// runRelationalPath extracts rows, decides and executes schema evolution,
// then registers a catalog entry whose descriptive text is a one-line
// summary of what was inserted.
func (o *Orchestrator) runRelationalPath(ctx context.Context, file fileInput, fineModality detector.Modality) (Envelope, error) {
	result, err := rows.Extract(ctx, file.path, fineModality)
	if err != nil {
		return errorEnvelope(file.coarse, err), nil
	}
	if len(result.Rows) == 0 {
		return errorEnvelope(file.coarse, wrapf(ErrParse, "file produced no rows")), nil
	}

	attributes := sortedKeys(result.Rows[0])
	sampleType := columnSampleType(result.Rows)

	decision, err := schema.Decide(ctx, o.deps.Catalog, attributes, sampleType)
	if err != nil {
		return errorEnvelope(file.coarse, wrapf(ErrSchema, "%w", err)), nil
	}

	outcome, err := o.deps.Executor.Apply(ctx, decision, attributes, file.hints.PrimaryKey, result.Rows)
	if err != nil {
		kind := ErrSchema
		if strings.Contains(err.Error(), "inserting batch") {
			kind = ErrInsert
		}
		return errorEnvelope(file.coarse, wrapf(kind, "%w", err)), nil
	}

	summary := fmt.Sprintf("%d of %d row(s) inserted into %q", outcome.Inserted, outcome.Attempted, outcome.TableName)
	env, catalogErr := o.runDocumentPath(ctx, file, summary)
	if catalogErr != nil {
		return env, catalogErr
	}
	env.Collection = outcome.TableName
	return env, nil
}

// embedAndUpsert embeds the file's descriptive text and chunk texts and
// upserts them into the vector index, tolerating a missing or unavailable
// embedder/index and logging (rather than failing the ingestion) on an
// upsert error: a vector-index failure still completes the envelope, with
// graph_nodes left empty and a warning logged.
func (o *Orchestrator) embedAndUpsert(ctx context.Context, file model.File, chunks []model.Chunk) []string {
	empty := []string{}
	if o.deps.Vectors == nil || !o.deps.Vectors.Available() || o.deps.Embedder == nil || !o.deps.Embedder.Available() {
		return empty
	}

	fileEmbedding, err := o.deps.Embedder.EncodeText(ctx, file.DescriptiveText)
	if err != nil {
		o.deps.Logger.Warn().Err(err).Str("file_id", file.FileID).Msg("embedding file text failed")
		return empty
	}

	chunkNodes := make([]vectorwriter.ChunkNode, 0, len(chunks))
	for _, c := range chunks {
		embedding, err := o.deps.Embedder.EncodeText(ctx, c.Text)
		if err != nil {
			o.deps.Logger.Warn().Err(err).Str("file_id", file.FileID).Int("chunk_index", c.ChunkIndex).Msg("embedding chunk text failed")
			continue
		}
		chunkNodes = append(chunkNodes, vectorwriter.ChunkNode{
			FileID:    file.FileID,
			Index:     c.ChunkIndex,
			Embedding: embedding,
			Text:      c.Text,
		})
	}

	ids, err := o.deps.Vectors.Upsert(ctx, &vectorwriter.FileNode{
		FileID:    file.FileID,
		Embedding: fileEmbedding,
		Text:      file.DescriptiveText,
		Metadata:  map[string]any{"collection_hint": file.CollectionHint, "tenant_id": file.TenantID},
	}, chunkNodes)
	if err != nil {
		o.deps.Logger.Warn().Err(err).Str("file_id", file.FileID).Msg("vector upsert failed")
		return empty
	}
	if ids == nil {
		return empty
	}
	return ids
}

func sortedKeys(row model.Row) []string {
	keys := row.Keys()
	sort.Strings(keys)
	return keys
}

// columnSampleType adapts rows into an attrmatch.SampleTypeFunc by
// inferring a new attribute's Postgres type from its sampled values across
// every row.
func columnSampleType(allRows []model.Row) attrmatch.SampleTypeFunc {
	return func(attr string) (attrmatch.PGType, bool) {
		samples := make([]model.Scalar, 0, len(allRows))
		for _, row := range allRows {
			if v, ok := row[attr]; ok {
				samples = append(samples, v)
			}
		}
		if len(samples) == 0 {
			return attrmatch.TypeUnknown, false
		}
		pgType, _ := sqlexec.InferColumnType(samples)
		return pgType, pgType != attrmatch.TypeUnknown
	}
}
