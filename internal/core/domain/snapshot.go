package domain

// RelationUnspecified is the bucket for satellites whose relation label is
// absent or empty. Kept as a named constant so a typo cannot silently
// mis-bucket records.
const RelationUnspecified = "unspecified"

// NucleusEntry is a cluster member enriched with its source text.
type NucleusEntry struct {
	DocID string `json:"doc_id"`
	EDUID string `json:"edu_id"`

	// Text is the looked-up source text; nil when the flat table has no
	// matching record.
	Text *string `json:"text"`

	Relation *string `json:"relation"`
	IsRoot   bool    `json:"is_root"`
	TopicID  string  `json:"topic_id"`
}

// SatelliteEntry is an attached satellite enriched with its source text.
type SatelliteEntry struct {
	DocID      string           `json:"doc_id"`
	EDUID      string           `json:"edu_id"`
	Text       *string          `json:"text"`
	Attachment AttachmentMethod `json:"attachment"`
	Score      *float64         `json:"score"`
	TopicID    string           `json:"topic_id"`
}

// SnapshotCluster is one aggregated cluster in the final snapshot.
type SnapshotCluster struct {
	ClusterID int `json:"cluster_id"`

	// Headline is the representative text: the first root-flagged member
	// with text, else the first member's text, else nil.
	Headline *string `json:"headline"`

	// Nuclei are all members, enriched with source text.
	Nuclei []NucleusEntry `json:"nuclei"`

	// SatellitesByRelation groups attached satellites by relation label,
	// preserving encounter order within each bucket.
	SatellitesByRelation map[string][]SatelliteEntry `json:"satellites_by_relation"`

	// Commonality is the nucleus member count; the primary rank key.
	Commonality int `json:"commonality"`

	// SatelliteCount is the total size of all relation buckets.
	SatelliteCount int `json:"satellite_count"`

	Centroid []float64 `json:"centroid"`
}

// SnapshotCounts are the snapshot totals.
type SnapshotCounts struct {
	Clusters        int `json:"clusters"`
	TotalNuclei     int `json:"total_nuclei"`
	TotalSatellites int `json:"total_satellites"`
}

// Snapshot is the final aggregate artifact: clusters ordered by descending
// (commonality, satellite_count).
type Snapshot struct {
	Counts   SnapshotCounts    `json:"counts"`
	Clusters []SnapshotCluster `json:"clusters"`
}
