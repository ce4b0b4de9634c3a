package types

// LineRecord is the metadata kept for every indexed line. The JSON form is
// the on-disk cache metadata format.
type LineRecord struct {
	File    string `json:"file"`
	LineNum int    `json:"line_num"` // 1-based, counts blank lines
	Text    string `json:"text"`     // Line content without the trailing newline
}

// Entry pairs an embedding vector with the line it was computed from.
type Entry struct {
	Vector []float32
	Record LineRecord
}

// Records returns the line records of entries in order.
func Records(entries []Entry) []LineRecord {
	records := make([]LineRecord, len(entries))
	for i := range entries {
		records[i] = entries[i].Record
	}
	return records
}

// Vectors returns the vectors of entries in order. The slices are shared,
// not copied.
func Vectors(entries []Entry) [][]float32 {
	vectors := make([][]float32, len(entries))
	for i := range entries {
		vectors[i] = entries[i].Vector
	}
	return vectors
}

// Pair zips vectors and records into entries. It returns false when the
// lengths differ.
func Pair(vectors [][]float32, records []LineRecord) ([]Entry, bool) {
	if len(vectors) != len(records) {
		return nil, false
	}
	entries := make([]Entry, len(records))
	for i := range records {
		entries[i] = Entry{Vector: vectors[i], Record: records[i]}
	}
	return entries, true
}
