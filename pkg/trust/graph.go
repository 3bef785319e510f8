package trust

import (
	"fmt"
	"sort"
)

// ValidateRating checks the structural invariants of a raw rating.
// Returns a *InvalidEdgeError describing the first violation, or nil.
func ValidateRating(r Rating) error {
	if r.RaterID == r.TargetID {
		return &InvalidEdgeError{RaterID: r.RaterID, TargetID: r.TargetID, Reason: "self-rating"}
	}
	if r.Contribution < 0 || r.Contribution > ScoreMax {
		return &InvalidEdgeError{
			RaterID:  r.RaterID,
			TargetID: r.TargetID,
			Reason:   fmt.Sprintf("contribution %d outside [0,%d]", r.Contribution, ScoreMax),
		}
	}
	if r.Communication < 0 || r.Communication > ScoreMax {
		return &InvalidEdgeError{
			RaterID:  r.RaterID,
			TargetID: r.TargetID,
			Reason:   fmt.Sprintf("communication %d outside [0,%d]", r.Communication, ScoreMax),
		}
	}
	return nil
}

type pairKey struct {
	source int64
	target int64
}

// NewGraph validates raw ratings and collapses them into a directed
// weighted graph with one edge per ordered (rater, target) pair.
// The user set of the result is the union of the supplied known ids and
// every id appearing in a rating, so isolated users keep a node.
func NewGraph(users []int64, ratings []Rating) (*Graph, error) {
	sums := make(map[pairKey]float64)
	counts := make(map[pairKey]int)
	known := make(map[int64]bool, len(users))
	for _, id := range users {
		known[id] = true
	}

	for _, r := range ratings {
		if err := ValidateRating(r); err != nil {
			return nil, err
		}
		known[r.RaterID] = true
		known[r.TargetID] = true

		k := pairKey{source: r.RaterID, target: r.TargetID}
		sums[k] += r.localTrust()
		counts[k]++
	}

	g := &Graph{
		Users: make([]int64, 0, len(known)),
		Edges: make([]Edge, 0, len(sums)),
	}
	for id := range known {
		g.Users = append(g.Users, id)
	}
	sort.Slice(g.Users, func(i, j int) bool { return g.Users[i] < g.Users[j] })

	for k, s := range sums {
		g.Edges = append(g.Edges, Edge{
			SourceID:   k.source,
			TargetID:   k.target,
			LocalTrust: s / float64(counts[k]),
		})
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].SourceID != g.Edges[j].SourceID {
			return g.Edges[i].SourceID < g.Edges[j].SourceID
		}
		return g.Edges[i].TargetID < g.Edges[j].TargetID
	})

	return g, nil
}
