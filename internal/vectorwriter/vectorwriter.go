// Package vectorwriter turns a file's chunks into vector-index nodes and
// upserts them, tolerating an unavailable index. The document shape mirrors
// a chromem-go collection's read path, adapted here to a write path.
package vectorwriter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ingestd/ingestd/internal/capability"
	"github.com/ingestd/ingestd/internal/model"
)

// Writer upserts file and chunk nodes into a capability.VectorIndex.
type Writer struct {
	index capability.VectorIndex
}

// New wraps index. index may report Available() == false; Writer still
// functions, it just no-ops.
func New(index capability.VectorIndex) *Writer {
	return &Writer{index: index}
}

// Available reports whether the underlying index will accept writes.
func (w *Writer) Available() bool {
	return w.index != nil && w.index.Available()
}

// FileNode describes the file-level embedding to upsert, alongside its
// chunk embeddings.
type FileNode struct {
	FileID    string
	Embedding []float32
	Text      string
	Metadata  map[string]any
}

// ChunkNode describes one chunk-level embedding to upsert.
type ChunkNode struct {
	FileID    string
	Index     int
	Embedding []float32
	Text      string
	Metadata  map[string]any
}

// Upsert writes the file node (if non-nil) and every chunk node. It returns
// the list of node IDs actually written, which the orchestrator reports as
// an envelope's graph_nodes; when the index is unavailable it returns a nil
// slice and no error.
func (w *Writer) Upsert(ctx context.Context, file *FileNode, chunks []ChunkNode) ([]string, error) {
	if !w.Available() {
		return nil, nil
	}

	nodes := make([]capability.Node, 0, len(chunks)+1)
	ids := make([]string, 0, len(chunks)+1)

	if file != nil {
		id := model.FileNodeID(file.FileID)
		nodes = append(nodes, capability.Node{
			ID:        id,
			Embedding: file.Embedding,
			Text:      file.Text,
			Metadata:  coerceMetadata(file.Metadata),
		})
		ids = append(ids, id)
	}

	for _, chunk := range chunks {
		id := model.ChunkNodeID(chunk.FileID, chunk.Index)
		nodes = append(nodes, capability.Node{
			ID:        id,
			Embedding: chunk.Embedding,
			Text:      chunk.Text,
			Metadata:  coerceMetadata(chunk.Metadata),
		})
		ids = append(ids, id)
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	if err := w.index.Upsert(ctx, nodes); err != nil {
		return nil, fmt.Errorf("upserting %d nodes: %w", len(nodes), err)
	}
	return ids, nil
}

// coerceMetadata JSON-encodes any value that isn't already a scalar
// (string, bool, numeric), since the vector index's metadata map only
// stores scalar-ish values.
func coerceMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if isScalar(v) {
			out[k] = v
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			out[k] = fmt.Sprintf("%v", v)
			continue
		}
		out[k] = string(encoded)
	}
	return out
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}
