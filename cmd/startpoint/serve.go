package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/internal/auth"
	"github.com/davecharm16/startpoint-academics-sub001/internal/notify"
	"github.com/davecharm16/startpoint-academics-sub001/internal/ratelimit"
	"github.com/davecharm16/startpoint-academics-sub001/internal/server"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	d, err := loadDeps(ctx, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	config := d.config

	tracker, err := d.tracker(ctx)
	if err != nil {
		return err
	}

	if config.SupabaseJWKSURL == "" {
		return fmt.Errorf("set SUPABASE_JWKS_URL or SUPABASE_URL to verify staff tokens")
	}

	verifier, err := auth.NewJWKSVerifier(ctx, config.SupabaseJWKSURL)
	if err != nil {
		return err
	}

	var queue notify.Publisher
	if config.AMQPURL != "" {
		amqpQueue := notify.NewAMQPQueue(logger, config.AMQPURL, config.NotificationQueue)
		defer func() { _ = amqpQueue.Close() }()
		queue = amqpQueue
		logger.WithField("queue", config.NotificationQueue).Info("notifications will be delivered by the worker")
	} else {
		dispatcher, err := d.dispatcher(ctx)
		if err != nil {
			return err
		}
		localQueue := notify.NewLocalQueue(logger, 256)
		go localQueue.Run(ctx, dispatcher)
		queue = localQueue
		logger.Warn("AMQP_URL not set, notifications are delivered in-process")
	}

	notifier := notify.NewService(logger, config.PublicBaseURL, d.projects, d.deliveries, queue)

	var limiter server.Limiter
	if config.PinRateLimitEnabled {
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()

		window := time.Duration(config.PinRateLimitWindowSec) * time.Second
		limiter = ratelimit.New(rdb, "startpoint:pin", config.PinRateLimitAttempts, window)
		logger.WithFields(logrus.Fields{
			"attempts":   config.PinRateLimitAttempts,
			"window_sec": config.PinRateLimitWindowSec,
		}).Info("pin rate limiting enabled")
	}

	srv, err := server.New(
		config,
		logger,
		tracker,
		d.issuer(),
		d.projects,
		d.profiles,
		notifier,
		verifier,
		limiter,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
