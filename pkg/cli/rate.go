package cli

import (
	"log/slog"

	urfave "github.com/urfave/cli/v2"

	"github.com/teamtrust/tctl/pkg/data"
)

var (
	raterFlag = &urfave.Int64Flag{
		Name:     "rater",
		Usage:    "Id of the rating user",
		Required: true,
	}

	targetFlag = &urfave.Int64Flag{
		Name:     "target",
		Usage:    "Id of the rated user",
		Required: true,
	}

	contributionFlag = &urfave.IntFlag{
		Name:     "contribution",
		Usage:    "Contribution score [0-10]",
		Required: true,
	}

	communicationFlag = &urfave.IntFlag{
		Name:     "communication",
		Usage:    "Communication score [0-10]",
		Required: true,
	}

	wouldWorkAgainFlag = &urfave.BoolFlag{
		Name:  "would-work-again",
		Usage: "Whether the rater would work with the target again",
	}

	teamFlag = &urfave.Int64Flag{
		Name:  "team",
		Usage: "Team id the rating belongs to (optional)",
	}

	commentFlag = &urfave.StringFlag{
		Name:  "comment",
		Usage: "Free-form comment (optional)",
	}

	rateCmd = &urfave.Command{
		Name:   "rate",
		Usage:  "Record one peer rating",
		Action: cmdRate,
		Flags: []urfave.Flag{
			raterFlag,
			targetFlag,
			contributionFlag,
			communicationFlag,
			wouldWorkAgainFlag,
			teamFlag,
			commentFlag,
		},
	}
)

func cmdRate(c *urfave.Context) error {
	r := &data.Rating{
		TeamID:         c.Int64(teamFlag.Name),
		RaterID:        c.Int64(raterFlag.Name),
		TargetID:       c.Int64(targetFlag.Name),
		Contribution:   c.Int(contributionFlag.Name),
		Communication:  c.Int(communicationFlag.Name),
		WouldWorkAgain: c.Bool(wouldWorkAgainFlag.Name),
		Comment:        c.String(commentFlag.Name),
	}

	if err := data.SaveRating(getConfig(c).DB, r); err != nil {
		return err
	}

	slog.Debug("rating saved", "id", r.ID, "rater", r.RaterID, "target", r.TargetID)
	return encode(r)
}
