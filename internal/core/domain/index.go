package domain

// NucleusRef is the compact descriptor of a nucleus EDU stored in the
// embedding index. Its position in the index list matches the row position
// in the nucleus vector matrix.
type NucleusRef struct {
	DocID    string   `json:"doc_id"`
	EDUID    string   `json:"edu_id"`
	TopicID  string   `json:"topic_id"`
	Relation *string  `json:"relation"`
	Span     *[2]int  `json:"span"`
	IsRoot   bool     `json:"is_root"`
}

// SatelliteRef is the compact descriptor of a satellite EDU stored in the
// embedding index, row-aligned with the satellite vector matrix.
type SatelliteRef struct {
	DocID       string  `json:"doc_id"`
	EDUID       string  `json:"edu_id"`
	TopicID     string  `json:"topic_id"`
	ParentEDUID *string `json:"parent_edu_id"`
	Relation    *string `json:"relation"`
	Span        *[2]int `json:"span"`
}

// CategoryCounts holds the per-nuclearity row counts of an embedding index.
type CategoryCounts struct {
	Nucleus   int `json:"nucleus"`
	Satellite int `json:"satellite"`
}

// EmbeddingIndex binds the rows of the two vector matrices back to EDUs.
// Invariant: len(Nucleus) and len(Satellite) equal the row counts of the
// corresponding matrices, and Dimension is consistent across non-empty ones.
type EmbeddingIndex struct {
	// Model is the embedding model identifier.
	Model string `json:"model"`

	// Device is the inference device the embedder reported (e.g. "cpu").
	Device string `json:"device"`

	// Dimension is the vector width; 0 when both categories are empty.
	Dimension int `json:"dimension"`

	// Counts mirrors the lengths of the two descriptor lists.
	Counts CategoryCounts `json:"counts"`

	// Nucleus descriptors, in matrix row order.
	Nucleus []NucleusRef `json:"nucleus"`

	// Satellite descriptors, in matrix row order.
	Satellite []SatelliteRef `json:"satellite"`
}
