package main

import (
	"context"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/codes"
	"github.com/davecharm16/startpoint-academics-sub001/internal/db"
	"github.com/davecharm16/startpoint-academics-sub001/internal/notify"
	"github.com/davecharm16/startpoint-academics-sub001/internal/storage"
	"github.com/davecharm16/startpoint-academics-sub001/internal/store"
	"github.com/davecharm16/startpoint-academics-sub001/internal/tracking"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// deps holds what every command that touches the database needs.
type deps struct {
	config *types.Config
	logger *logrus.Logger
	pool   *pgxpool.Pool

	projects   *store.ProjectRepository
	files      *store.ProjectFileRepository
	profiles   *store.ProfileRepository
	deliveries *store.NotificationDeliveryRepository

	awsConfig *aws.Config
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadDeps(ctx context.Context, logger *logrus.Logger) (*deps, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &deps{
		config:     config,
		logger:     logger,
		pool:       pool,
		projects:   store.NewProjectRepository(pool),
		files:      store.NewProjectFileRepository(pool),
		profiles:   store.NewProfileRepository(pool),
		deliveries: store.NewNotificationDeliveryRepository(pool),
	}, nil
}

func (d *deps) Close() {
	d.pool.Close()
}

func (d *deps) aws(ctx context.Context) (aws.Config, error) {
	if d.awsConfig != nil {
		return *d.awsConfig, nil
	}

	cfg, err := loadAWSConfig(ctx)
	if err != nil {
		return aws.Config{}, err
	}
	d.awsConfig = &cfg

	return cfg, nil
}

func (d *deps) blob(ctx context.Context) (tracking.Blob, error) {
	switch d.config.StorageProvider {
	case "s3":
		awsConfig, err := d.aws(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Storage(s3.NewFromConfig(awsConfig), d.config.StorageBucketName), nil
	default:
		return storage.NewSupabaseStorage(d.config.SupabaseURL, d.config.SupabaseServiceKey, d.config.StorageBucketName), nil
	}
}

func (d *deps) markerCodec() (*tracking.MarkerCodec, error) {
	hashKey, blockKey, err := d.config.CookieKeys()
	if err != nil {
		return nil, err
	}
	return tracking.NewMarkerCodec(hashKey, blockKey), nil
}

func (d *deps) tracker(ctx context.Context) (*tracking.Service, error) {
	blob, err := d.blob(ctx)
	if err != nil {
		return nil, err
	}

	markers, err := d.markerCodec()
	if err != nil {
		return nil, err
	}

	return tracking.NewService(d.projects, d.files, blob, markers), nil
}

func (d *deps) issuer() *tracking.Issuer {
	return tracking.NewIssuer(codes.NewReferenceIssuer(d.config.ReferencePrefix, d.projects), d.projects)
}

// sender sends through SES when a from address is configured and logs the
// email otherwise.
func (d *deps) sender(ctx context.Context) (notify.Sender, error) {
	if d.config.EmailFromAddress == "" {
		d.logger.Warn("EMAIL_FROM_ADDRESS not set, notification emails will only be logged")
		return notify.NewLogSender(d.logger), nil
	}

	awsConfig, err := d.aws(ctx)
	if err != nil {
		return nil, err
	}

	return notify.NewSESSender(sesv2.NewFromConfig(awsConfig), d.config.EmailFromAddress), nil
}

func (d *deps) dispatcher(ctx context.Context) (*notify.Dispatcher, error) {
	sender, err := d.sender(ctx)
	if err != nil {
		return nil, err
	}
	return notify.NewDispatcher(d.logger, sender, d.deliveries), nil
}
