package docingest

// DefaultChunkSize and DefaultChunkOverlap are the character-window
// chunking defaults.
const DefaultChunkSize = 1000
const DefaultChunkOverlap = 200

// Chunk splits text into overlapping character windows, producing a
// contiguous, dense sequence (no gaps, no duplicated tail chunk).
func Chunk(text string, chunkSize, overlap int) []string {
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
	}

	length := len(text)
	var chunks []string
	start := 0
	for start < length {
		end := start + chunkSize
		if end > length {
			end = length
		}
		chunks = append(chunks, text[start:end])
		if end == length {
			break
		}
		start = end - overlap
	}
	return chunks
}
