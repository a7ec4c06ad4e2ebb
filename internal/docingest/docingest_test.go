package docingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingestd/ingestd/internal/capability"
)

type fakeStore struct {
	docs map[string][]map[string]any
}

func newFakeStore() *fakeStore { return &fakeStore{docs: make(map[string][]map[string]any)} }

func (f *fakeStore) InsertOne(ctx context.Context, collection string, doc map[string]any) (string, error) {
	f.docs[collection] = append(f.docs[collection], doc)
	return doc["_id"].(string), nil
}

func (f *fakeStore) InsertMany(ctx context.Context, collection string, docs []map[string]any) ([]string, error) {
	var ids []string
	for _, d := range docs {
		f.docs[collection] = append(f.docs[collection], d)
		ids = append(ids, "")
	}
	return ids, nil
}

func (f *fakeStore) Find(ctx context.Context, collection string, filter map[string]any, limit int) (capability.Cursor, error) {
	return nil, nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

type fakeObjects struct {
	copied map[string]string
}

func (f *fakeObjects) CopyInto(ctx context.Context, src, destRelative string) (string, error) {
	if f.copied == nil {
		f.copied = make(map[string]string)
	}
	f.copied[src] = destRelative
	return destRelative, nil
}

func (f *fakeObjects) Resolve(relative string) (string, error) { return "/root/" + relative, nil }

func TestIngestExtractsSummarizesAndPersistsFileAndChunks(t *testing.T) {
	store := newFakeStore()
	text := "Our quarterly product catalog covers pricing and inventory. " +
		"It lists every sku by brand. It also covers upcoming listings. " +
		"Extra detail follows that should not appear in the summary sentence limit test. " +
		"And more filler. And still more filler. Final sentence here."
	ing := New(Dependencies{Store: store, Extractor: &fakeExtractor{text: text}})

	result, err := ing.Ingest(context.Background(), Input{
		TenantID:     "tenant-a",
		Path:         "/tmp/catalog.txt",
		OriginalName: "catalog.txt",
		Extension:    ".txt",
		Modality:     "document",
	})
	require.NoError(t, err)
	assert.Equal(t, "products", result.File.CollectionHint)
	assert.NotEmpty(t, result.File.FileID)
	assert.NotEmpty(t, result.Chunks)
	assert.Len(t, store.docs["files"], 1)
	assert.Len(t, store.docs["products"], len(result.Chunks))
}

func TestIngestFallsBackToFilenameWhenExtractorReturnsEmpty(t *testing.T) {
	store := newFakeStore()
	ing := New(Dependencies{Store: store, Extractor: &fakeExtractor{text: ""}})

	result, err := ing.Ingest(context.Background(), Input{
		TenantID:     "tenant-a",
		Path:         "/tmp/unknown.xyz",
		OriginalName: "unknown.xyz",
		Modality:     "binary",
	})
	require.NoError(t, err)
	assert.Equal(t, "unknown.xyz", result.File.DescriptiveText)
	assert.Empty(t, result.Chunks)
}

func TestIngestHonorsCallerSuppliedCollectionHintAndPreExtractedText(t *testing.T) {
	store := newFakeStore()
	ing := New(Dependencies{Store: store})

	result, err := ing.Ingest(context.Background(), Input{
		TenantID:       "tenant-a",
		Text:           "three rows inserted into the orders table",
		OriginalName:   "orders.csv",
		Modality:       "tabular",
		CollectionHint: "orders",
	})
	require.NoError(t, err)
	assert.Equal(t, "orders", result.File.CollectionHint)
	assert.Equal(t, "three rows inserted into the orders table", result.File.DescriptiveText)
}

func TestIngestCopiesMediaFileIntoObjectStore(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjects{}
	ing := New(Dependencies{Store: store, Extractor: &fakeExtractor{text: "a photo caption"}, Objects: objects})

	result, err := ing.Ingest(context.Background(), Input{
		TenantID:     "tenant-a",
		Path:         "/tmp/vacation.jpg",
		OriginalName: "vacation.jpg",
		Modality:     "image",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/media/vacation.jpg", result.StorageURI)
	assert.Equal(t, "image/media/vacation.jpg", objects.copied["/tmp/vacation.jpg"])
}
