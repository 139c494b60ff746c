package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecharm16/startpoint-academics-sub001/internal/notify"

	"github.com/urfave/cli/v2"
)

var workerCommand = &cli.Command{
	Name:   "worker",
	Usage:  "Consume queued notification emails from RabbitMQ and send them",
	Action: worker,
}

func worker(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	d, err := loadDeps(ctx, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.config.AMQPURL == "" {
		return fmt.Errorf("set AMQP_URL to run the notification worker")
	}

	dispatcher, err := d.dispatcher(ctx)
	if err != nil {
		return err
	}

	queue := notify.NewAMQPQueue(logger, d.config.AMQPURL, d.config.NotificationQueue)
	defer func() { _ = queue.Close() }()

	err = queue.Consume(ctx, dispatcher)
	logger.Info("notification worker stopped")

	return err
}
