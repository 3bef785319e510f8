package data

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/teamtrust/tctl/pkg/trust"
)

// GraphNode is one user node of the visualization export.
type GraphNode struct {
	ID         int64         `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Trust      float64       `json:"trust" yaml:"trust"`
	Reputation trust.Summary `json:"reputation" yaml:"reputation"`
	Overall    float64       `json:"overall" yaml:"overall"`
}

// GraphEdge is one deduped rater -> target edge with its averaged weight
// and per-pair rating statistics.
type GraphEdge struct {
	SourceID            int64    `json:"source" yaml:"source"`
	TargetID            int64    `json:"target" yaml:"target"`
	Weight              float64  `json:"weight" yaml:"weight"`
	Count               int      `json:"count" yaml:"count"`
	ContributionAvg     *float64 `json:"contribution_avg" yaml:"contributionAvg"`
	CommunicationAvg    *float64 `json:"communication_avg" yaml:"communicationAvg"`
	WouldWorkAgainRatio float64  `json:"would_work_again_ratio" yaml:"wouldWorkAgainRatio"`
}

// GraphExport is the deduped rating graph for visualization.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

type edgeAccumulator struct {
	localSum   float64
	count      int
	contribSum float64
	commSum    float64
	wwaSum     float64
}

// GetGraphExport assembles nodes with trust and reputation plus collapsed
// edges from one snapshot. Ratings whose local trust value is zero are
// skipped from the visualization edges; they carry no propagation mass.
func GetGraphExport(db *sql.DB, cfg trust.Config) (*GraphExport, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	users, err := ListUsers(db)
	if err != nil {
		return nil, err
	}
	ratings, err := ListRatings(db)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	g, err := trust.NewGraph(ids, toTrustRatings(ratings))
	if err != nil {
		return nil, fmt.Errorf("error building rating graph: %w", err)
	}
	res := trust.Propagate(g, cfg)

	incoming := make(map[int64][]trust.Rating, len(users))
	for _, r := range ratings {
		incoming[r.TargetID] = append(incoming[r.TargetID], r.toTrust())
	}

	export := &GraphExport{
		Nodes: make([]GraphNode, 0, len(users)),
		Edges: make([]GraphEdge, 0),
	}

	for _, u := range users {
		s := trust.Summarize(u.ID, res.Scores, incoming[u.ID])
		export.Nodes = append(export.Nodes, GraphNode{
			ID:         u.ID,
			Name:       u.Name,
			Trust:      res.Scores[u.ID],
			Reputation: s,
			Overall:    s.OverallScore(),
		})
	}

	type pair struct{ source, target int64 }
	acc := make(map[pair]*edgeAccumulator)
	for _, r := range ratings {
		tr := r.toTrust()
		wwa := 0.0
		if tr.WouldWorkAgain {
			wwa = 1.0
		}
		local := (float64(tr.Contribution)/trust.ScoreMax + float64(tr.Communication)/trust.ScoreMax + wwa) / 3.0
		if local <= 0 {
			continue
		}

		k := pair{source: tr.RaterID, target: tr.TargetID}
		a, ok := acc[k]
		if !ok {
			a = &edgeAccumulator{}
			acc[k] = a
		}
		a.localSum += local
		a.count++
		a.contribSum += float64(tr.Contribution)
		a.commSum += float64(tr.Communication)
		a.wwaSum += wwa
	}

	for k, a := range acc {
		n := float64(a.count)
		contribAvg := a.contribSum / n
		commAvg := a.commSum / n
		export.Edges = append(export.Edges, GraphEdge{
			SourceID:            k.source,
			TargetID:            k.target,
			Weight:              a.localSum / n,
			Count:               a.count,
			ContributionAvg:     &contribAvg,
			CommunicationAvg:    &commAvg,
			WouldWorkAgainRatio: a.wwaSum / n,
		})
	}
	sort.Slice(export.Edges, func(i, j int) bool {
		if export.Edges[i].SourceID != export.Edges[j].SourceID {
			return export.Edges[i].SourceID < export.Edges[j].SourceID
		}
		return export.Edges[i].TargetID < export.Edges[j].TargetID
	})

	return export, nil
}
