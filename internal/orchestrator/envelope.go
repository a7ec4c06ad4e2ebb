package orchestrator

// Envelope statuses.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
	StatusSkipped   = "skipped"
)

// MongoCollections names the two document-store collections an ingestion
// touched.
type MongoCollections struct {
	Files  string `json:"files"`
	Chunks string `json:"chunks"`
}

// StoragePlan reports where PathPlanner decided the file should live, and
// where it actually ended up if moved there.
type StoragePlan struct {
	Path    string `json:"path"`
	MovedTo string `json:"moved_to,omitempty"`
}

// Envelope is the uniform result returned for every ingested file, success
// or failure.
type Envelope struct {
	Status            string            `json:"status"`
	FileID            string            `json:"file_id,omitempty"`
	Collection        string            `json:"collection,omitempty"`
	Modality          string            `json:"modality"`
	ChunkCount        int               `json:"chunk_count"`
	GraphNodes        []string          `json:"graph_nodes"`
	MongoCollections  MongoCollections  `json:"mongo_collections"`
	StoragePlan       *StoragePlan      `json:"storage_plan,omitempty"`
	Error             string            `json:"error,omitempty"`
}

// Hints carries the caller-supplied overrides to the ingestion entry point.
type Hints struct {
	Modality     string
	Collection   string
	PrimaryKey   string
	MetadataText string
}

func errorEnvelope(modality string, err error) Envelope {
	return Envelope{
		Status:           StatusError,
		Modality:         modality,
		GraphNodes:       []string{},
		MongoCollections: MongoCollections{},
		Error:            err.Error(),
	}
}
