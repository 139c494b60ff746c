package store

import (
	"context"
	"fmt"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationDeliveryTableName = "startpoint.notification_deliveries"

var notificationDeliveryColumns = utils.StructTagValues(types.NotificationDelivery{})

type NotificationDeliveryRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationDeliveryRepository(pool *pgxpool.Pool) *NotificationDeliveryRepository {
	return &NotificationDeliveryRepository{pool: pool}
}

func (r *NotificationDeliveryRepository) CreateDelivery(ctx context.Context, delivery *types.NotificationDelivery) error {
	now := time.Now()
	delivery.CreatedAt = now
	delivery.UpdatedAt = now

	query, args, err := psql().
		Insert(notificationDeliveryTableName).
		SetMap(utils.StructToMap(delivery)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert delivery query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to record notification delivery")
}

// MarkDelivery records the outcome of a send attempt. failure is nil on success.
func (r *NotificationDeliveryRepository) MarkDelivery(ctx context.Context, deliveryID string, status types.DeliveryStatus, failure *string) error {
	query, args, err := psql().
		Update(notificationDeliveryTableName).
		Set("status", status).
		Set("error", failure).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": deliveryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update delivery query for %s: %w", deliveryID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update notification delivery")
}

func (r *NotificationDeliveryRepository) Delivery(ctx context.Context, deliveryID string) (*types.NotificationDelivery, error) {
	query, args, err := psql().
		Select(notificationDeliveryColumns...).
		From(notificationDeliveryTableName).
		Where(sq.Eq{"id": deliveryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delivery query: %w", err)
	}

	var delivery types.NotificationDelivery
	err = pgxscan.Get(ctx, r.pool, &delivery, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to fetch delivery: %w", err)
	}

	return &delivery, nil
}

func (r *NotificationDeliveryRepository) DeliveriesByStatus(ctx context.Context, status types.DeliveryStatus, limit uint64) ([]*types.NotificationDelivery, error) {
	query, args, err := psql().
		Select(notificationDeliveryColumns...).
		From(notificationDeliveryTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deliveries query: %w", err)
	}

	var deliveries = make([]*types.NotificationDelivery, 0)
	if err := pgxscan.Select(ctx, r.pool, &deliveries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch deliveries: %w", err)
	}

	return deliveries, nil
}
