package service

import (
	"context"

	"github.com/Skotchmaster/shofy/internal/events"
	"github.com/Skotchmaster/shofy/pkg/logging"
)

// publish reports a committed write. A broker failure is logged and does not
// fail the request.
func publish(ctx context.Context, p events.Publisher, topic, typ string, id uint, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, events.NewEvent(typ, id, data)); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", typ, "entity_id", id, "error", err)
	}
}
