package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/events"
)

// StartCatalogAuditWorker logs every catalog change with the admin who made it.
func StartCatalogAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	audit := func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event", string(event.Type)),
			zap.String("product_id", event.ProductID),
			zap.String("actor_id", event.ActorID),
		}
		switch p := event.Payload.(type) {
		case events.ProductCreatedPayload:
			fields = append(fields, zap.String("name", p.Name), zap.String("category", p.Category))
		case events.ProductImageReplacedPayload:
			fields = append(fields, zap.String("old_public_id", p.OldPublicID), zap.String("new_image_url", p.NewImageURL))
		case events.ProductDeletedPayload:
			fields = append(fields, zap.String("public_id", p.PublicID))
		}
		logger.Info("catalog change", fields...)
		return nil
	}
	for _, t := range []events.EventType{events.EventProductCreated, events.EventProductImageReplaced, events.EventProductDeleted} {
		dispatcher.Subscribe(t, audit)
	}
}
