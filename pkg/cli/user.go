package cli

import (
	urfave "github.com/urfave/cli/v2"

	"github.com/teamtrust/tctl/pkg/data"
)

var (
	userNameFlag = &urfave.StringFlag{
		Name:     "name",
		Usage:    "User display name",
		Required: true,
	}

	userMajorFlag = &urfave.StringFlag{
		Name:  "major",
		Usage: "Field of study (optional)",
	}

	userYearFlag = &urfave.StringFlag{
		Name:  "year",
		Usage: "Class year (optional)",
	}

	userEmailFlag = &urfave.StringFlag{
		Name:  "email",
		Usage: "Contact email (optional)",
	}

	userBioFlag = &urfave.StringFlag{
		Name:  "bio",
		Usage: "Short bio (optional)",
	}

	userCmd = &urfave.Command{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "List user operations",
		Subcommands: []*urfave.Command{
			{
				Name:    "add",
				Usage:   "Add a user",
				Aliases: []string{"a"},
				Action:  cmdUserAdd,
				Flags: []urfave.Flag{
					userNameFlag,
					userMajorFlag,
					userYearFlag,
					userEmailFlag,
					userBioFlag,
				},
			},
			{
				Name:    "list",
				Usage:   "List users",
				Aliases: []string{"l"},
				Action:  cmdUserList,
			},
		},
	}
)

func cmdUserAdd(c *urfave.Context) error {
	u := &data.User{
		Name:  c.String(userNameFlag.Name),
		Major: c.String(userMajorFlag.Name),
		Year:  c.String(userYearFlag.Name),
		Email: c.String(userEmailFlag.Name),
		Bio:   c.String(userBioFlag.Name),
	}

	if _, err := data.AddUser(getConfig(c).DB, u); err != nil {
		return err
	}
	return encode(u)
}

func cmdUserList(c *urfave.Context) error {
	list, err := data.ListUsers(getConfig(c).DB)
	if err != nil {
		return err
	}
	return encode(list)
}
