// Package vectorstore implements capability.VectorIndex against chromem-go,
// an in-process embedded vector database, covering collection lifecycle and
// document shape. The capability.VectorIndex contract has no filter
// parameter on Query, so there is no metadata-filter/post-filter-by-tags
// logic here.
package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/ingestd/ingestd/internal/capability"
)

const defaultCollectionName = "ingestd"

// Store is a capability.VectorIndex backed by a single chromem-go
// collection. A Store with no collection (constructed via NewUnavailable)
// or a nil *Store reports Available() == false, for when no embedder is
// configured.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	mu         sync.RWMutex
}

var _ capability.VectorIndex = (*Store)(nil)

// New creates an empty in-process chromem-go database with one collection.
// embeddingFunc is nil because nodes always arrive pre-embedded (the
// Embedder capability runs upstream in internal/vectorwriter); chromem-go
// only needs one to compute embeddings for documents added without one.
func New() (*Store, error) {
	return newWithDB(chromem.NewDB(), defaultCollectionName)
}

// NewPersistent creates a chromem-go database that persists its collection
// under persistPath (CHROMA_PERSIST_PATH), named collectionName
// (CHROMA_NOSQL_COLLECTION). An empty collectionName falls back to
// defaultCollectionName.
func NewPersistent(persistPath, collectionName string) (*Store, error) {
	if collectionName == "" {
		collectionName = defaultCollectionName
	}
	db, err := chromem.NewPersistentDB(persistPath, false)
	if err != nil {
		return nil, fmt.Errorf("opening persistent chromem db at %q: %w", persistPath, err)
	}
	return newWithDB(db, collectionName)
}

func newWithDB(db *chromem.DB, collectionName string) (*Store, error) {
	collection, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating chromem collection: %w", err)
	}
	return &Store{db: db, collection: collection}, nil
}

// NewUnavailable returns a Store whose Available() reports false, for
// deployments with no configured embedder.
func NewUnavailable() *Store {
	return &Store{}
}

// Available reports whether this store is backed by a live collection.
func (s *Store) Available() bool {
	return s != nil && s.collection != nil
}

// Upsert adds or replaces nodes in the collection. chromem-go's
// AddDocument overwrites any existing document sharing the same ID, so no
// explicit delete-before-add is needed here, unlike an incremental-update
// path that also has to handle removals in the same call.
func (s *Store) Upsert(ctx context.Context, nodes []capability.Node) error {
	if !s.Available() {
		return fmt.Errorf("vectorstore: not available")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, node := range nodes {
		doc := chromem.Document{
			ID:        node.ID,
			Content:   node.Text,
			Embedding: node.Embedding,
			Metadata:  encodeMetadata(node.Metadata),
		}
		if err := s.collection.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("upserting node %s: %w", node.ID, err)
		}
	}
	return nil
}

// Query runs a k-nearest-neighbor similarity search against embedding.
func (s *Store) Query(ctx context.Context, embedding []float32, k int) ([]capability.ScoredNode, error) {
	if !s.Available() {
		return nil, fmt.Errorf("vectorstore: not available")
	}
	if k <= 0 {
		k = 10
	}

	s.mu.RLock()
	collection := s.collection
	s.mu.RUnlock()

	nResults := k
	if n := collection.Count(); n < nResults {
		nResults = n
	}
	if nResults == 0 {
		return nil, nil
	}

	docs, err := collection.QueryEmbedding(ctx, embedding, nResults, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying vector index: %w", err)
	}

	results := make([]capability.ScoredNode, 0, len(docs))
	for _, doc := range docs {
		results = append(results, capability.ScoredNode{
			Node: capability.Node{
				ID:        doc.ID,
				Embedding: doc.Embedding,
				Text:      doc.Content,
				Metadata:  decodeMetadata(doc.Metadata),
			},
			Score: doc.Similarity,
		})
	}
	return results, nil
}

// encodeMetadata renders arbitrary node metadata as chromem-go's
// map[string]string, matching the vectorwriter's JSON-encoding of
// non-scalar values before it ever reaches this layer; here we only need to
// stringify whatever scalar types vectorwriter already produced.
func encodeMetadata(meta map[string]any) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = stringifyMetadataValue(v)
	}
	return out
}

func stringifyMetadataValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func decodeMetadata(meta map[string]string) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
