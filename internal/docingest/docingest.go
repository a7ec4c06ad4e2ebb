// Package docingest implements the document ingestion path: text extraction
// dispatch, summarization, collection-hint classification, character-window
// chunking, and persistence of the file-metadata and chunk documents.
package docingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ingestd/ingestd/internal/capability"
	"github.com/ingestd/ingestd/internal/model"
)

const filesCollection = "files"

// PlannerFactory builds a capability.PathPlanner scoped to one file's
// modality and inferred collection hint — pathplanner.New's constructor
// shape requires both, so a single long-lived PathPlanner instance can't be
// stored in Dependencies the way Store/Extractor/Objects are.
type PlannerFactory func(modality, collectionHint string) capability.PathPlanner

// Dependencies bundles the capabilities an Ingestor needs. Any of them may
// be nil: with no Store nothing is persisted to the document store, with no
// Extractor text extraction yields "", with no Objects object-store copying
// is skipped, and with no Planner object placement falls back to
// {modality}/{collection}/{name}.
type Dependencies struct {
	Store     capability.DocumentStore
	Extractor capability.TextExtractor
	Objects   capability.ObjectStore
	Planner   PlannerFactory
}

// Ingestor runs the document ingestion path.
type Ingestor struct {
	deps               Dependencies
	chunkSize, overlap int
}

// New constructs an Ingestor using the default chunk size and overlap.
func New(deps Dependencies) *Ingestor {
	return &Ingestor{deps: deps, chunkSize: DefaultChunkSize, overlap: DefaultChunkOverlap}
}

// Input describes one unit of work: either a file on disk to extract and
// ingest, or pre-extracted text to register directly (the tabular-ingest
// path's catalog-only registration, where Text is a row-insert summary and
// Path/Objects copying do not apply).
type Input struct {
	TenantID       string
	Path           string // source file path; "" when Text is supplied directly
	OriginalName   string
	Extension      string
	SizeBytes      int64
	Modality       string // catalog coarse modality
	Text           string // pre-extracted text; when non-empty, Extractor is not consulted
	CollectionHint string // caller override; inferred from text when empty
	Extra          map[string]any
}

// Result is what Ingest reports back to the orchestrator.
type Result struct {
	File       model.File
	Chunks     []model.Chunk
	StorageURI string
}

// Ingest resolves text (extracting it when not already supplied),
// summarizes it, infers or honors a collection_hint, chunks the full text,
// and persists one file-metadata document plus N chunk documents.
func (ing *Ingestor) Ingest(ctx context.Context, in Input) (Result, error) {
	text, err := ing.resolveText(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("extracting text: %w", err)
	}

	descriptiveText := text
	if descriptiveText == "" {
		descriptiveText = in.OriginalName
	}
	summary := Summarize(descriptiveText)

	collectionHint := in.CollectionHint
	if collectionHint == "" {
		collectionHint = ClassifyCollection(descriptiveText)
	}

	storageURI, collectionHint, err := ing.copyIntoObjectStore(ctx, in, descriptiveText, collectionHint)
	if err != nil {
		return Result{}, err
	}

	fileID := newFileID()
	file := model.File{
		FileID:          fileID,
		TenantID:        in.TenantID,
		OriginalName:    in.OriginalName,
		Extension:       in.Extension,
		SizeBytes:       in.SizeBytes,
		StorageURI:      storageURI,
		Modality:        model.Modality(in.Modality),
		CollectionHint:  collectionHint,
		SummaryPreview:  SummaryPreview(summary),
		DescriptiveText: descriptiveText,
		Extra:           in.Extra,
		CreatedAt:       time.Now().UTC(),
	}

	chunks := buildChunks(fileID, in.TenantID, Chunk(text, ing.chunkSize, ing.overlap))

	if ing.deps.Store != nil {
		if err := ing.persist(ctx, file, collectionHint, chunks); err != nil {
			return Result{}, err
		}
	}

	return Result{File: file, Chunks: chunks, StorageURI: storageURI}, nil
}

func (ing *Ingestor) resolveText(ctx context.Context, in Input) (string, error) {
	if in.Text != "" {
		return in.Text, nil
	}
	if ing.deps.Extractor == nil || in.Path == "" {
		return "", nil
	}
	return ing.deps.Extractor.Extract(ctx, in.Path)
}

// copyIntoObjectStore copies the source file into the configured
// object-store root, returning "" when there is no source file or no
// configured object store. The destination
// defaults to {modality}/{collection}/{original_name}; when a PlannerFactory
// is configured (ENABLE_LOCAL_PATH_GENERATOR), the planner's output
// supersedes both the destination path and, when it reclassifies,
// collectionHint itself.
func (ing *Ingestor) copyIntoObjectStore(ctx context.Context, in Input, descriptiveText, collectionHint string) (string, string, error) {
	if ing.deps.Objects == nil || in.Path == "" {
		return "", collectionHint, nil
	}

	destRelative := filepath.ToSlash(filepath.Join(in.Modality, collectionHint, in.OriginalName))
	if ing.deps.Planner != nil {
		planner := ing.deps.Planner(in.Modality, collectionHint)
		planned, err := planner.Plan(ctx, descriptiveText, in.OriginalName)
		if err != nil {
			return "", collectionHint, fmt.Errorf("planning object placement: %w", err)
		}
		destRelative = planned.RelativePath
		if planned.CollectionHint != "" {
			collectionHint = planned.CollectionHint
		}
	}

	finalDest, err := ing.deps.Objects.CopyInto(ctx, in.Path, destRelative)
	if err != nil {
		return "", collectionHint, fmt.Errorf("copying into object store: %w", err)
	}
	return finalDest, collectionHint, nil
}

func (ing *Ingestor) persist(ctx context.Context, file model.File, collectionHint string, chunks []model.Chunk) error {
	if _, err := ing.deps.Store.InsertOne(ctx, filesCollection, fileDocument(file)); err != nil {
		return fmt.Errorf("persisting file document: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		docs[i] = chunkDocument(c)
	}
	if _, err := ing.deps.Store.InsertMany(ctx, collectionHint, docs); err != nil {
		return fmt.Errorf("persisting chunk documents: %w", err)
	}
	return nil
}

func buildChunks(fileID, tenantID string, texts []string) []model.Chunk {
	chunks := make([]model.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = model.Chunk{
			FileID:     fileID,
			ChunkIndex: i,
			Text:       t,
			ChunkSize:  len(t),
			TenantID:   tenantID,
		}
	}
	return chunks
}

// newFileID produces a "file_<hex uuid>" style identifier.
func newFileID() string {
	return "file_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func fileDocument(f model.File) map[string]any {
	return map[string]any{
		"_id":              f.FileID,
		"tenant_id":        f.TenantID,
		"original_name":    f.OriginalName,
		"extension":        f.Extension,
		"size_bytes":       f.SizeBytes,
		"storage_uri":      f.StorageURI,
		"modality":         string(f.Modality),
		"collection_hint":  f.CollectionHint,
		"summary_preview":  f.SummaryPreview,
		"descriptive_text": f.DescriptiveText,
		"extra":            f.Extra,
		"created_at":       f.CreatedAt,
	}
}

func chunkDocument(c model.Chunk) map[string]any {
	return map[string]any{
		"file_id":     c.FileID,
		"tenant_id":   c.TenantID,
		"chunk_index": c.ChunkIndex,
		"text":        c.Text,
		"chunk_size":  c.ChunkSize,
	}
}
