package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "startpoint",
		Usage: "Project tracking and deliverable access for Startpoint Academics",
		Commands: []*cli.Command{
			serveCommand,
			workerCommand,
			migrateCommand,
			seedCommand,
			tokenCommand,
			referralCommand,
			inspectCommand,
			notificationsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
