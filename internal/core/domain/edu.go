package domain

// Nuclearity is the discourse role of an EDU relative to its parent.
type Nuclearity string

const (
	// NuclearityNucleus marks the structurally primary EDU in a relation.
	NuclearityNucleus Nuclearity = "nucleus"

	// NuclearitySatellite marks a subordinate EDU that elaborates a nucleus.
	NuclearitySatellite Nuclearity = "satellite"
)

// Valid reports whether the nuclearity is one of the two known roles.
func (n Nuclearity) Valid() bool {
	return n == NuclearityNucleus || n == NuclearitySatellite
}

// EDU is a flattened elementary discourse unit record.
// It is the row format of the flat EDU table produced by the flatten stage
// and consumed by every downstream stage.
type EDU struct {
	// DocID identifies the source document. (DocID, EDUID) is globally unique.
	DocID string `json:"doc_id"`

	// TopicID is the topic grouping identifier inherited from the document.
	TopicID string `json:"topic_id"`

	// EDUID identifies the unit within its document.
	EDUID string `json:"edu_id"`

	// Text is the surface text of the unit.
	Text string `json:"text"`

	// Span is the optional (start, end) character offsets in the source text.
	Span *[2]int `json:"span"`

	// Nuclearity is either nucleus or satellite.
	Nuclearity Nuclearity `json:"nuclearity"`

	// Relation is the discourse relation label to the parent.
	// Nil only for a nucleus with no incoming relation.
	Relation *string `json:"relation"`

	// ParentEDUID is the parent unit within the same document.
	// Nil for nucleus roots and isolated nuclei.
	ParentEDUID *string `json:"parent_edu_id"`

	// IsRoot is true for exactly one EDU per document: the primary nucleus.
	IsRoot bool `json:"is_root"`
}

// EDUKey is the composite (doc_id, edu_id) key of a flattened EDU.
type EDUKey struct {
	DocID string
	EDUID string
}

// Key returns the composite lookup key for the record.
func (e EDU) Key() EDUKey {
	return EDUKey{DocID: e.DocID, EDUID: e.EDUID}
}
