package model

import (
	"strconv"
	"time"
)

// Row is a single relational record: attribute name (as it arrived, before
// normalization) to scalar value. All rows produced from one file share the
// same set of keys after normalization.
type Row map[string]Scalar

// Keys returns the row's attribute names in no particular order.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return keys
}

// Modality is the coarse file kind used for cataloging: a narrower enum
// than detector.Modality, which additionally distinguishes structured
// sub-formats for routing purposes.
type Modality string

const (
	ModalityTabular  Modality = "tabular"
	ModalityDocument Modality = "document"
	ModalityImage    Modality = "image"
	ModalityVideo    Modality = "video"
	ModalityAudio    Modality = "audio"
	ModalityBinary   Modality = "binary"
)

// File is a catalog entry.
type File struct {
	FileID          string
	TenantID        string
	OriginalName    string
	Extension       string
	SizeBytes       int64
	StorageURI      string
	Modality        Modality
	CollectionHint  string
	SummaryPreview  string
	DescriptiveText string
	Extra           map[string]any
	CreatedAt       time.Time
}

// Chunk is a contiguous slice of a document's extracted text.
type Chunk struct {
	FileID     string
	ChunkIndex int
	Text       string
	ChunkSize  int
	TenantID   string
}

// GraphNode is a single vector-index entry.
type GraphNode struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  map[string]any
}

// FileNodeID returns the deterministic node key for a file's own embedding.
func FileNodeID(fileID string) string { return fileID + ":file" }

// ChunkNodeID returns the deterministic node key for chunk i of a file.
func ChunkNodeID(fileID string, index int) string {
	return fileID + ":chunk:" + strconv.Itoa(index)
}
