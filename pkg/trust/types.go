// Package trust turns raw pairwise peer ratings into a global trust
// vector and trust-weighted reputation summaries. It is a pure, stateless
// pipeline: ratings -> collapsed graph -> damped power iteration ->
// per-target aggregation. Nothing here touches storage or I/O.
package trust

const (
	// ScoreMax is the upper bound of the raw contribution and
	// communication scores.
	ScoreMax = 10
)

// Rating is one raw peer rating as recorded by the application layer.
// Contribution and Communication are integer scores in [0,10].
type Rating struct {
	RaterID        int64 `json:"rater_id" yaml:"raterId"`
	TargetID       int64 `json:"target_user_id" yaml:"targetUserId"`
	Contribution   int   `json:"contribution" yaml:"contribution"`
	Communication  int   `json:"communication" yaml:"communication"`
	WouldWorkAgain bool  `json:"would_work_again" yaml:"wouldWorkAgain"`
}

// localTrust is the per-rating trust value in [0,1]: the mean of the
// normalized contribution, normalized communication, and the
// would-work-again indicator.
func (r Rating) localTrust() float64 {
	wwa := 0.0
	if r.WouldWorkAgain {
		wwa = 1.0
	}
	return (float64(r.Contribution)/ScoreMax + float64(r.Communication)/ScoreMax + wwa) / 3.0
}

// Edge is a collapsed rating edge: at most one per ordered (source, target)
// pair, its weight averaged over all raw ratings for that pair. Averaging,
// never summing, keeps repeated interactions between the same pair from
// buying extra influence through volume.
type Edge struct {
	SourceID   int64   `json:"source" yaml:"source"`
	TargetID   int64   `json:"target" yaml:"target"`
	LocalTrust float64 `json:"weight" yaml:"weight"`
}

// Graph is the collapsed rating graph over the full known-user set.
// Users includes isolated ids with no edges at all; both slices are
// sorted so downstream iteration order is deterministic.
type Graph struct {
	Users []int64
	Edges []Edge
}
