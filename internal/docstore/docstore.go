// Package docstore implements capability.DocumentStore against an on-disk
// bleve index per collection. Grounded on
// _examples/mvp-joe-project-cortex/internal/mcp/exact_searcher.go's mapping
// and batching pattern, adapted from an ephemeral bleve.NewMemOnly index to
// a persistent bleve.New(path, ...) index per collection, since ingested
// file and chunk documents must survive process restarts.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/ingestd/ingestd/internal/capability"
)

const indexBatchSize = 1000

// Store is a capability.DocumentStore backed by one bleve index per
// collection, all rooted under a single directory.
type Store struct {
	rootDir string

	mu         sync.Mutex
	indexes    map[string]bleve.Index
	collection map[string]string // doc id -> collection; not set or read by any method
}

// New returns a Store that creates one bleve index directory per collection
// under rootDir, creating rootDir if it does not exist.
func New(rootDir string) (*Store, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating docstore root %q: %w", rootDir, err)
	}
	return &Store{
		rootDir: rootDir,
		indexes: make(map[string]bleve.Index),
	}, nil
}

var _ capability.DocumentStore = (*Store)(nil)

// Close releases every open collection index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, idx := range s.indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// indexFor returns (opening or creating) the bleve index backing
// collection, under s.mu.
func (s *Store) indexFor(collection string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[collection]; ok {
		return idx, nil
	}

	path := filepath.Join(s.rootDir, collection+".bleve")
	idx, err := bleve.Open(path)
	if err == nil {
		s.indexes[collection] = idx
		return idx, nil
	}

	idx, err = bleve.New(path, buildDocumentMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index for collection %q: %w", collection, err)
	}
	s.indexes[collection] = idx
	return idx, nil
}

// buildDocumentMapping maps every field as "keyword" (exact-match,
// filterable) except "text", "summary_preview", and "descriptive_text",
// which get the "standard" analyzer so free-form prose is tokenized for
// search, and "_id", which is stored but not indexed. Ingested
// documents carry an open-ended attribute set, so the default mapping
// applies the same treatment to any field not explicitly named.
func buildDocumentMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	prose := bleve.NewTextFieldMapping()
	prose.Analyzer = "standard"
	prose.Store = true
	prose.Index = true
	prose.IncludeTermVectors = true

	stored := bleve.NewTextFieldMapping()
	stored.Analyzer = "keyword"
	stored.Store = true
	stored.Index = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("_id", stored)
	docMapping.AddFieldMappingsAt("text", prose)
	docMapping.AddFieldMappingsAt("summary_preview", prose)
	docMapping.AddFieldMappingsAt("descriptive_text", prose)
	docMapping.DefaultAnalyzer = "keyword"

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = "keyword"
	return indexMapping
}

// InsertOne indexes a single document, assigning it a UUID when the caller
// hasn't already set an "_id" field, and returns that id.
func (s *Store) InsertOne(ctx context.Context, collection string, doc map[string]any) (string, error) {
	ids, err := s.InsertMany(ctx, collection, []map[string]any{doc})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertMany batch-indexes docs into collection in groups of
// indexBatchSize, grounded on exact_searcher.go's indexChunks batching.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []map[string]any) ([]string, error) {
	idx, err := s.indexFor(collection)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(docs))
	batch := idx.NewBatch()
	for i, doc := range docs {
		if i%indexBatchSize == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		id, _ := doc["_id"].(string)
		if id == "" {
			id = uuid.NewString()
			doc["_id"] = id
		}
		ids[i] = id

		if err := batch.Index(id, bleveDocument(doc)); err != nil {
			return nil, fmt.Errorf("adding document %s to batch: %w", id, err)
		}

		if batch.Size() >= indexBatchSize {
			if err := idx.Batch(batch); err != nil {
				return nil, fmt.Errorf("executing batch for collection %q: %w", collection, err)
			}
			batch = idx.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			return nil, fmt.Errorf("executing final batch for collection %q: %w", collection, err)
		}
	}

	return ids, nil
}

// bleveDocument JSON-round-trips doc so nested maps/slices survive bleve's
// reflection-based field walk, and non-scalar values (e.g. the file
// catalog's Extra map) don't panic it.
func bleveDocument(doc map[string]any) map[string]any {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return doc
	}
	var flat map[string]any
	if err := json.Unmarshal(encoded, &flat); err != nil {
		return doc
	}
	return flat
}

// Find runs a conjunction of keyword-analyzed term queries, one per filter
// entry, against collection, returning up to limit matching documents as a
// Cursor. filter values are compared via exact-match MatchQuery against the
// field's keyword-analyzed token.
func (s *Store) Find(ctx context.Context, collection string, filter map[string]any, limit int) (capability.Cursor, error) {
	idx, err := s.indexFor(collection)
	if err != nil {
		return nil, err
	}

	var q query.Query
	if len(filter) == 0 {
		q = bleve.NewMatchAllQuery()
	} else {
		var terms []query.Query
		for field, value := range filter {
			mq := bleve.NewMatchQuery(fmt.Sprintf("%v", value))
			mq.SetField(field)
			terms = append(terms, mq)
		}
		q = bleve.NewConjunctionQuery(terms...)
	}

	if limit <= 0 {
		limit = 100
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"*"}

	result, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching collection %q: %w", collection, err)
	}

	return &cursor{hits: result.Hits}, nil
}

type cursor struct {
	hits search.DocumentMatchCollection
	pos  int
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.pos >= len(c.hits) {
		return false
	}
	c.pos++
	return true
}

func (c *cursor) Decode() (map[string]any, error) {
	if c.pos == 0 || c.pos > len(c.hits) {
		return nil, fmt.Errorf("docstore: Decode called without a successful Next")
	}
	hit := c.hits[c.pos-1]
	out := make(map[string]any, len(hit.Fields))
	for k, v := range hit.Fields {
		out[k] = v
	}
	return out, nil
}

func (c *cursor) Close() error { return nil }
