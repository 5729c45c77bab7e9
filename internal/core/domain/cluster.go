package domain

// ClusterMember is a nucleus assigned to a cluster. Index is the row index
// into the nucleus matrix; the remaining fields are the descriptor carried
// over from the embedding index.
type ClusterMember struct {
	Index int `json:"index"`
	NucleusRef
}

// Cluster is one k-means cluster of nucleus embeddings.
type Cluster struct {
	// ClusterID is contiguous in [0, k).
	ClusterID int `json:"cluster_id"`

	// Size is the member count.
	Size int `json:"size"`

	// Centroid is the mean vector of the cluster in embedding space.
	Centroid []float64 `json:"centroid"`

	// Members lists the assigned nuclei in ascending row-index order.
	Members []ClusterMember `json:"members"`
}

// KMeansParams records the clustering parameters for reproducibility.
type KMeansParams struct {
	NClusters   int   `json:"n_clusters"`
	RandomState int64 `json:"random_state"`
	MaxIter     int   `json:"max_iter"`
}

// ClusterModel describes the model that produced a cluster payload.
type ClusterModel struct {
	Name   string       `json:"name"`
	Params KMeansParams `json:"params"`

	// Inertia is the sum of squared distances of members to their centroid,
	// kept as a diagnostic.
	Inertia float64 `json:"inertia"`
}

// ClusterCounts summarises a cluster payload.
type ClusterCounts struct {
	Clusters int `json:"clusters"`
	Nucleus  int `json:"nucleus"`
}

// ClusterPayload is the cluster-stage artifact.
type ClusterPayload struct {
	Model    ClusterModel  `json:"model"`
	Counts   ClusterCounts `json:"counts"`
	Clusters []Cluster     `json:"clusters"`

	// IndexPath points at the embedding index the clusters were built from.
	IndexPath string `json:"index_path"`
}
