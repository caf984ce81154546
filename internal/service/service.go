package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// publish sends an event without failing the caller. Delivery errors are
// logged only.
func publish(ctx context.Context, pub events.Publisher, topic, key string, ev events.Event) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "type", ev["type"], "error", err)
	}
}
