package main

import (
	"context"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/seed"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed staff profiles and a demo project for local development",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "skip-demo",
			Usage: "Only seed staff profiles",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := context.Background()

		d, err := loadDeps(ctx, logrus.StandardLogger())
		if err != nil {
			return err
		}
		defer d.Close()

		logrus.Info("Connected to database")

		if err := seed.SeedStaff(ctx, d.profiles); err != nil {
			return fmt.Errorf("failed to seed staff: %w", err)
		}

		if c.Bool("skip-demo") {
			return nil
		}

		tracker, err := d.tracker(ctx)
		if err != nil {
			return err
		}

		if _, err := seed.SeedDemoProject(ctx, d.projects, d.issuer(), tracker); err != nil {
			return fmt.Errorf("failed to seed demo project: %w", err)
		}

		return nil
	},
}
