package cli

import (
	urfave "github.com/urfave/cli/v2"

	"github.com/teamtrust/tctl/pkg/data"
)

var seedCmd = &urfave.Command{
	Name:   "seed",
	Usage:  "Load a small demo population into an empty store",
	Action: cmdSeed,
}

func cmdSeed(c *urfave.Context) error {
	res, err := data.SeedDemo(getConfig(c).DB)
	if err != nil {
		return err
	}
	return encode(res)
}
