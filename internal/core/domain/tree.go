package domain

// RawDocument is a corpus document before parsing.
// The corpus is owned externally; the pipeline consumes it read-only.
type RawDocument struct {
	// DocID is the unique identifier for the document.
	DocID string `json:"doc_id"`

	// TopicID is the topic grouping identifier.
	TopicID string `json:"topic_id"`

	// AuthorID identifies the document author.
	AuthorID string `json:"author_id"`

	// Text is the full document text.
	Text string `json:"text"`
}

// ParsedEDU is an elementary discourse unit as produced by a parser.
type ParsedEDU struct {
	// EDUID is unique within the document.
	EDUID string `json:"edu_id"`

	// Text is the surface text of the unit.
	Text string `json:"text"`

	// Span is the optional (start, end) character span in the document.
	Span *[2]int `json:"span"`
}

// TreeRelation is a parent/child link between EDUs. The nuclearity describes
// the child relative to its parent.
type TreeRelation struct {
	// ChildID is the child EDU.
	ChildID string `json:"child_id"`

	// ParentID is the parent EDU; nil when the child is the root.
	ParentID *string `json:"parent_id"`

	// Relation is the relation label assigned by the parser.
	Relation string `json:"relation"`

	// Nuclearity is the child's role with respect to its parent.
	Nuclearity Nuclearity `json:"nuclearity"`
}

// ParseResult is the normalised parser output for one document.
type ParseResult struct {
	// EDUs lists all units in document order.
	EDUs []ParsedEDU `json:"edus"`

	// Relations maps each child EDU to its parent and nuclearity.
	Relations []TreeRelation `json:"relations"`

	// RootEDU is the identifier of the root EDU, if known.
	RootEDU *string `json:"root_edu"`
}

// ParserInfo records which parser produced a tree.
type ParserInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ParsedDocument is one document's discourse tree plus provenance.
// It is the row format of the parse-stage artifact.
type ParsedDocument struct {
	DocID   string      `json:"doc_id"`
	TopicID string      `json:"topic_id"`
	Parser  ParserInfo  `json:"parser"`
	RST     ParseResult `json:"rst"`
}
