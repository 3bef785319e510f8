package trust

import "math"

const (
	// DampingDefault is the share of trust mass propagated through the
	// graph; the remainder falls back to the uniform personalization
	// vector each step.
	DampingDefault = 0.85

	// MaxIterDefault caps the power iteration, bounding worst-case work
	// at O(edges * MaxIter) regardless of graph shape.
	MaxIterDefault = 50

	// TolDefault is the L1 convergence threshold between iterations.
	TolDefault = 1e-10

	// massEpsilon is the allowed drift of the vector sum from 1 before
	// the iteration renormalizes to restore stochasticity.
	massEpsilon = 1e-6
)

// Config holds the propagation parameters.
type Config struct {
	Damping float64 `json:"damping" yaml:"damping"`
	MaxIter int     `json:"max_iter" yaml:"maxIter"`
	Tol     float64 `json:"tol" yaml:"tol"`
}

// DefaultConfig returns the standard propagation parameters.
func DefaultConfig() Config {
	return Config{
		Damping: DampingDefault,
		MaxIter: MaxIterDefault,
		Tol:     TolDefault,
	}
}

// Result is the outcome of one propagation run. Scores maps every user in
// the input graph to a weight; the weights are non-negative and sum to 1.
// Converged=false is an observability signal, not a failure: the last
// vector is still usable.
type Result struct {
	Scores     map[int64]float64 `json:"scores" yaml:"scores"`
	Converged  bool              `json:"converged" yaml:"converged"`
	Iterations int               `json:"iterations" yaml:"iterations"`
}

// outLink is one row-normalized transition entry.
type outLink struct {
	target int
	weight float64
}

// Propagate computes the global trust vector: the stationary distribution
// of a damped random walk over the collapsed rating graph, found by power
// iteration with a uniform personalization vector. Rows with no outgoing
// mass are dangling and redistribute uniformly over all users.
func Propagate(g *Graph, cfg Config) Result {
	n := len(g.Users)
	if n == 0 {
		return Result{Scores: map[int64]float64{}, Converged: true}
	}

	index := make(map[int64]int, n)
	for i, id := range g.Users {
		index[id] = i
	}

	rows := normalizeRows(g, index)

	t := make([]float64, n)
	next := make([]float64, n)
	for i := range t {
		t[i] = 1.0 / float64(n)
	}

	base := (1.0 - cfg.Damping) / float64(n)
	res := Result{}

	for k := 1; k <= cfg.MaxIter; k++ {
		// Dangling rows spread their damped mass to every user.
		dangling := 0.0
		for i := range rows {
			if rows[i] == nil {
				dangling += t[i]
			}
		}
		share := cfg.Damping * dangling / float64(n)

		for j := range next {
			next[j] = base + share
		}
		for i, links := range rows {
			if links == nil {
				continue
			}
			m := cfg.Damping * t[i]
			for _, l := range links {
				next[l.target] += m * l.weight
			}
		}

		sum := 0.0
		diff := 0.0
		for j := range next {
			sum += next[j]
			diff += math.Abs(next[j] - t[j])
		}
		// Consistency check: the vector stays a distribution. Rounding
		// drift beyond the epsilon gets renormalized away.
		if math.Abs(sum-1.0) > massEpsilon {
			for j := range next {
				next[j] /= sum
			}
		}

		t, next = next, t
		res.Iterations = k
		if diff < cfg.Tol {
			res.Converged = true
			break
		}
	}

	res.Scores = make(map[int64]float64, n)
	for i, id := range g.Users {
		res.Scores[id] = t[i]
	}
	return res
}

// normalizeRows turns the collapsed edges into row-stochastic outgoing
// links. A nil row marks a dangling user: no outgoing edges, or outgoing
// edges whose weights are all zero (no mass to normalize).
func normalizeRows(g *Graph, index map[int64]int) [][]outLink {
	n := len(g.Users)
	rows := make([][]outLink, n)
	rowSums := make([]float64, n)

	for _, e := range g.Edges {
		rowSums[index[e.SourceID]] += e.LocalTrust
	}
	for _, e := range g.Edges {
		i := index[e.SourceID]
		if rowSums[i] <= 0 {
			continue
		}
		rows[i] = append(rows[i], outLink{
			target: index[e.TargetID],
			weight: e.LocalTrust / rowSums[i],
		})
	}
	return rows
}
