package data

import (
	"database/sql"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/teamtrust/tctl/pkg/trust"
)

// TrustReport is the global trust vector with its convergence metadata.
type TrustReport struct {
	Scores     map[int64]float64 `json:"scores" yaml:"scores"`
	Converged  bool              `json:"converged" yaml:"converged"`
	Iterations int               `json:"iterations" yaml:"iterations"`
	Users      int               `json:"users" yaml:"users"`
	Edges      int               `json:"edges" yaml:"edges"`
}

// UserReputation is one user's trust-weighted reputation view.
type UserReputation struct {
	UserID     int64         `json:"user_id" yaml:"userId"`
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	Trust      float64       `json:"trust" yaml:"trust"`
	Reputation trust.Summary `json:"reputation" yaml:"reputation"`
	Overall    float64       `json:"overall" yaml:"overall"`
}

// snapshot reads the full graph input in one pass: the known user set
// and every stored rating. Both reads happen before any computation so
// concurrent writers cannot be observed mid-iteration.
func snapshot(db *sql.DB) ([]int64, []*Rating, error) {
	ids, err := GetUserIDs(db)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading user ids: %w", err)
	}
	ratings, err := ListRatings(db)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading ratings: %w", err)
	}
	return ids, ratings, nil
}

// GetTrustScores computes the global trust vector from the current
// snapshot of the ratings store.
func GetTrustScores(db *sql.DB, cfg trust.Config) (*TrustReport, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	ids, ratings, err := snapshot(db)
	if err != nil {
		return nil, err
	}

	g, err := trust.NewGraph(ids, toTrustRatings(ratings))
	if err != nil {
		return nil, fmt.Errorf("error building rating graph: %w", err)
	}

	res := trust.Propagate(g, cfg)
	if !res.Converged {
		slog.Warn("trust propagation did not converge",
			"iterations", res.Iterations, "users", len(g.Users))
	}

	return &TrustReport{
		Scores:     res.Scores,
		Converged:  res.Converged,
		Iterations: res.Iterations,
		Users:      len(g.Users),
		Edges:      len(g.Edges),
	}, nil
}

// GetUserReputation computes one user's reputation summary. The trust
// vector is computed from the same snapshot the incoming ratings come
// from.
func GetUserReputation(db *sql.DB, cfg trust.Config, userID int64) (*UserReputation, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	u, err := GetUser(db, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	report, err := GetTrustScores(db, cfg)
	if err != nil {
		return nil, err
	}

	incoming, err := ListRatingsForTarget(db, userID)
	if err != nil {
		return nil, err
	}

	s := trust.Summarize(userID, report.Scores, toTrustRatings(incoming))
	return &UserReputation{
		UserID:     userID,
		Name:       u.Name,
		Trust:      report.Scores[userID],
		Reputation: s,
		Overall:    s.OverallScore(),
	}, nil
}

// ListUserReputations computes summaries for every known user. The trust
// vector is computed once for the whole batch and shared across targets;
// the per-target aggregations are independent given that vector, so they
// fan out across a bounded worker group.
func ListUserReputations(db *sql.DB, cfg trust.Config) ([]*UserReputation, error) {
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
	if !res.Converged {
		slog.Warn("trust propagation did not converge",
			"iterations", res.Iterations, "users", len(g.Users))
	}

	incoming := make(map[int64][]trust.Rating, len(users))
	for _, r := range ratings {
		incoming[r.TargetID] = append(incoming[r.TargetID], r.toTrust())
	}

	list := make([]*UserReputation, len(users))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, u := range users {
		eg.Go(func() error {
			s := trust.Summarize(u.ID, res.Scores, incoming[u.ID])
			list[i] = &UserReputation{
				UserID:     u.ID,
				Name:       u.Name,
				Trust:      res.Scores[u.ID],
				Reputation: s,
				Overall:    s.OverallScore(),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return list, nil
}
