package main

import (
	"context"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/tracking"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var inspectCommand = &cli.Command{
	Name:      "inspect",
	Usage:     "Print a project, its deliverables and expected PIN by tracking token",
	ArgsUsage: "<tracking-token>",
	Action: func(c *cli.Context) error {
		token := c.Args().First()
		if token == "" {
			return fmt.Errorf("tracking token is required")
		}

		ctx := context.Background()

		d, err := loadDeps(ctx, logrus.StandardLogger())
		if err != nil {
			return err
		}
		defer d.Close()

		project, err := d.projects.ProjectByToken(ctx, token)
		if err != nil {
			return err
		}

		files, err := d.files.DeliverablesByProject(ctx, project.ID)
		if err != nil {
			return err
		}

		pp.Println(project)
		pp.Println(files)
		fmt.Printf("expected PIN: %s, files available: %t\n", tracking.ExpectedPIN(project.ClientPhone), project.Status.FilesAvailable())

		return nil
	},
}
