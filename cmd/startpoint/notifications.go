package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davecharm16/startpoint-academics-sub001/internal/notify"
	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var notificationsCommand = &cli.Command{
	Name:  "notifications",
	Usage: "Inspect and resend notification emails",
	Subcommands: []*cli.Command{
		{
			Name:  "failed",
			Usage: "List recent failed deliveries",
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:  "limit",
					Usage: "Maximum rows to show",
					Value: 50,
				},
			},
			Action: listFailedNotifications,
		},
		{
			Name:      "resend",
			Usage:     "Queue a delivery again",
			ArgsUsage: "<delivery-id>",
			Action:    resendNotification,
		},
	},
}

func listFailedNotifications(c *cli.Context) error {
	ctx := context.Background()

	d, err := loadDeps(ctx, logrus.StandardLogger())
	if err != nil {
		return err
	}
	defer d.Close()

	deliveries, err := d.deliveries.DeliveriesByStatus(ctx, types.DeliveryFailed, c.Uint64("limit"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROJECT\tKIND\tRECIPIENT\tCREATED\tERROR")
	for _, delivery := range deliveries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			delivery.ID,
			delivery.ProjectID,
			delivery.Kind,
			delivery.Recipient,
			delivery.CreatedAt.Format("2006-01-02 15:04"),
			utils.PtrString(delivery.Error),
		)
	}

	return w.Flush()
}

func resendNotification(c *cli.Context) error {
	deliveryID := c.Args().First()
	if deliveryID == "" {
		return fmt.Errorf("delivery id is required")
	}

	ctx := context.Background()
	logger := logrus.StandardLogger()

	d, err := loadDeps(ctx, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	var queue notify.Publisher
	if d.config.AMQPURL != "" {
		amqpQueue := notify.NewAMQPQueue(logger, d.config.AMQPURL, d.config.NotificationQueue)
		defer func() { _ = amqpQueue.Close() }()
		queue = amqpQueue
	} else {
		dispatcher, err := d.dispatcher(ctx)
		if err != nil {
			return err
		}
		queue = notify.NewInlineQueue(dispatcher)
	}

	svc := notify.NewService(logger, d.config.PublicBaseURL, d.projects, d.deliveries, queue)
	if err := svc.Resend(ctx, deliveryID); err != nil {
		return err
	}

	logger.WithField("delivery_id", deliveryID).Info("notification queued again")
	return nil
}
