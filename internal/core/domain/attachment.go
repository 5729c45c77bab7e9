package domain

// Metric selects the similarity used for nearest-centroid attachment.
type Metric string

const (
	// MetricCosine L2-normalizes centroids and satellite vectors before scoring.
	MetricCosine Metric = "cosine"

	// MetricDot scores raw vectors with the dot product.
	MetricDot Metric = "dot"
)

// Valid reports whether the metric is one of the supported selectors.
func (m Metric) Valid() bool {
	return m == MetricCosine || m == MetricDot
}

// AttachmentMethod tags how a satellite was bound to a cluster.
type AttachmentMethod string

const (
	// AttachmentParent means the satellite's parent EDU is a clustered nucleus.
	AttachmentParent AttachmentMethod = "parent"

	// AttachmentNearest means the satellite fell back to the closest centroid.
	AttachmentNearest AttachmentMethod = "nearest"
)

// Attachment is the tagged outcome of the two-tier attachment rule:
// either a parent-link attachment (no score) or a nearest-centroid
// attachment carrying the winning similarity.
type Attachment struct {
	Method AttachmentMethod

	// Score is the winning similarity; set only for AttachmentNearest.
	Score *float64
}

// ParentAttachment builds the parent-link variant.
func ParentAttachment() Attachment {
	return Attachment{Method: AttachmentParent}
}

// NearestAttachment builds the nearest-centroid variant with its score.
func NearestAttachment(score float64) Attachment {
	return Attachment{Method: AttachmentNearest, Score: &score}
}

// SatelliteAssignment records where one satellite landed.
// Invariant: every satellite produces exactly one assignment with a
// cluster id in [0, k).
type SatelliteAssignment struct {
	// Index is the row index into the satellite matrix.
	Index int `json:"index"`

	DocID       string  `json:"doc_id"`
	EDUID       string  `json:"edu_id"`
	TopicID     string  `json:"topic_id"`
	ParentEDUID *string `json:"parent_edu_id"`
	Relation    *string `json:"relation"`
	Span        *[2]int `json:"span"`

	// Attachment is "parent" or "nearest".
	Attachment AttachmentMethod `json:"attachment"`

	// Score is the similarity for nearest attachments, nil for parent.
	Score *float64 `json:"score"`

	// ClusterID is the cluster the satellite was attached to.
	ClusterID int `json:"cluster_id"`
}

// AttachedCluster is a cluster enriched with its attached satellites.
type AttachedCluster struct {
	Cluster

	// Satellites holds the assignments appended in input order.
	Satellites []SatelliteAssignment `json:"satellites"`
}

// AttachMetadata records the inputs and metric of an attach run.
type AttachMetadata struct {
	Embeddings string `json:"embeddings"`
	Clusters   string `json:"clusters"`
	Metric     Metric `json:"metric"`
}

// AttachCounts summarises an attach payload.
type AttachCounts struct {
	Clusters   int `json:"clusters"`
	Satellites int `json:"satellites"`
}

// AttachPayload is the attach-stage artifact: clusters now carrying
// satellites, plus the flat assignment list.
type AttachPayload struct {
	Metadata    AttachMetadata        `json:"metadata"`
	Counts      AttachCounts          `json:"counts"`
	Clusters    []AttachedCluster     `json:"clusters"`
	Assignments []SatelliteAssignment `json:"assignments"`
}
