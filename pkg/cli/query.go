package cli

import (
	urfave "github.com/urfave/cli/v2"

	"github.com/teamtrust/tctl/pkg/data"
	"github.com/teamtrust/tctl/pkg/trust"
)

var (
	dampingFlag = &urfave.Float64Flag{
		Name:  "damping",
		Usage: "Trust propagation damping factor",
		Value: trust.DampingDefault,
	}

	maxIterFlag = &urfave.IntFlag{
		Name:  "max-iter",
		Usage: "Iteration cap for trust propagation",
		Value: trust.MaxIterDefault,
	}

	tolFlag = &urfave.Float64Flag{
		Name:  "tol",
		Usage: "Convergence tolerance (L1 distance between iterations)",
		Value: trust.TolDefault,
	}

	targetUserFlag = &urfave.Int64Flag{
		Name:  "user",
		Usage: "User id (all users when omitted)",
	}

	queryCmd = &urfave.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List trust and reputation query operations",
		Subcommands: []*urfave.Command{
			{
				Name:    "trust",
				Usage:   "Compute the global trust vector",
				Aliases: []string{"t"},
				Action:  cmdQueryTrust,
				Flags: []urfave.Flag{
					dampingFlag,
					maxIterFlag,
					tolFlag,
				},
			},
			{
				Name:    "reputation",
				Usage:   "Compute trust-weighted reputation summaries",
				Aliases: []string{"r"},
				Action:  cmdQueryReputation,
				Flags: []urfave.Flag{
					targetUserFlag,
					dampingFlag,
					maxIterFlag,
					tolFlag,
				},
			},
			{
				Name:    "graph",
				Usage:   "Export the deduped rating graph with trust per node",
				Aliases: []string{"g"},
				Action:  cmdQueryGraph,
				Flags: []urfave.Flag{
					dampingFlag,
					maxIterFlag,
					tolFlag,
				},
			},
		},
	}
)

// propagationConfig reads the engine parameters from the command flags,
// falling back to the stored config for flags the user did not set.
func propagationConfig(c *urfave.Context) trust.Config {
	cfg := trust.Config{
		Damping: c.Float64(dampingFlag.Name),
		MaxIter: c.Int(maxIterFlag.Name),
		Tol:     c.Float64(tolFlag.Name),
	}

	if c.App == nil {
		return cfg
	}
	ac, ok := c.App.Metadata[appConfigKey].(*appConfig)
	if !ok || ac.Settings == nil {
		return cfg
	}

	if !c.IsSet(dampingFlag.Name) {
		cfg.Damping = ac.Settings.Damping
	}
	if !c.IsSet(maxIterFlag.Name) {
		cfg.MaxIter = ac.Settings.MaxIter
	}
	if !c.IsSet(tolFlag.Name) {
		cfg.Tol = ac.Settings.Tol
	}
	return cfg
}

func cmdQueryTrust(c *urfave.Context) error {
	report, err := data.GetTrustScores(getConfig(c).DB, propagationConfig(c))
	if err != nil {
		return err
	}
	return encode(report)
}

func cmdQueryReputation(c *urfave.Context) error {
	cfg := getConfig(c)
	pc := propagationConfig(c)

	if id := c.Int64(targetUserFlag.Name); id != 0 {
		rep, err := data.GetUserReputation(cfg.DB, pc, id)
		if err != nil {
			return err
		}
		return encode(rep)
	}

	list, err := data.ListUserReputations(cfg.DB, pc)
	if err != nil {
		return err
	}
	return encode(list)
}

func cmdQueryGraph(c *urfave.Context) error {
	export, err := data.GetGraphExport(getConfig(c).DB, propagationConfig(c))
	if err != nil {
		return err
	}
	return encode(export)
}
