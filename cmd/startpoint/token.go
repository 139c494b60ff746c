package main

import (
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"

	"github.com/urfave/cli/v2"
)

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "Generate NanoIDs or tracking tokens",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of values to generate",
			Value:   1,
		},
		&cli.BoolFlag{
			Name:  "tracking",
			Usage: "Generate client tracking tokens instead of row ids",
		},
	},
	Action: func(c *cli.Context) error {
		count := c.Int("count")
		for range count {
			if !c.Bool("tracking") {
				fmt.Println(utils.NanoID())
				continue
			}

			token, err := utils.TrackingToken()
			if err != nil {
				return fmt.Errorf("failed to generate tracking token: %w", err)
			}
			fmt.Println(token)
		}
		return nil
	},
}
