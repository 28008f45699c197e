package cache

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey identifies the result of a chaining run.
	ResultKey(reportHash, graphHash string, opts ResultKeyOpts) string

	// ArtifactKey identifies an output rendered from a result.
	ArtifactKey(resultKey string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts holds every setting that changes a run's result.
type ResultKeyOpts struct {
	Overlap        int      `json:"overlap"`
	ValidThreshold float64  `json:"valid_threshold"`
	ErrorMargin    int      `json:"error_margin"`
	SafetyMargin   int      `json:"safety_margin"`
	MaxSweeps      int      `json:"max_sweeps"`
	Expected       []string `json:"expected,omitempty"`

	// QueryLengths is encoded with sorted keys so the key is stable.
	QueryLengths map[string]int `json:"query_lengths,omitempty"`
}

// ArtifactKeyOpts identifies a rendering of a result.
type ArtifactKeyOpts struct {
	Kind   string `json:"kind"` // "path", "candidates" or "successors"
	Format string `json:"format"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey returns "result:<sha256>".
func (DefaultKeyer) ResultKey(reportHash, graphHash string, opts ResultKeyOpts) string {
	return hashKey("result", reportHash, graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(resultKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultKey, opts)
}
