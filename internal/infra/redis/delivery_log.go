// File: internal/infra/redis/delivery_log.go
package redis

import (
	"context"
	"time"

	"payment-webhook-relay/internal/domain/ports/repository"
)

const deliveryKeyPrefix = "webhook:delivery:"

var _ repository.DeliveryLog = (*DeliveryLog)(nil)

// DeliveryLog implements the redelivery guard with SetNX and a TTL. The TTL
// bounds memory, not correctness: Stripe stops retrying well inside a day.
type DeliveryLog struct {
	cli RedisClient
	ttl time.Duration
}

func NewDeliveryLog(cli RedisClient, ttl time.Duration) *DeliveryLog {
	return &DeliveryLog{cli: cli, ttl: ttl}
}

func (d *DeliveryLog) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	return d.cli.SetNX(ctx, deliveryKeyPrefix+eventID, time.Now().UTC().Format(time.RFC3339), d.ttl)
}

func (d *DeliveryLog) Forget(ctx context.Context, eventID string) error {
	return d.cli.Del(ctx, deliveryKeyPrefix+eventID)
}
