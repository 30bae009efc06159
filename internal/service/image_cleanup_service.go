package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/events"
	"github.com/spec-kit/catalog-admin/internal/imagehost"
)

// ImageCleanupService releases hosted images that products no longer reference.
// Failures are reported to the dispatcher, which logs them; they never fail the save.
type ImageCleanupService struct {
	dispatcher events.Dispatcher
	images     imagehost.Handle
	logger     *zap.Logger
}

// NewImageCleanupService creates the service.
func NewImageCleanupService(dispatcher events.Dispatcher, images imagehost.Handle, logger *zap.Logger) *ImageCleanupService {
	return &ImageCleanupService{
		dispatcher: dispatcher,
		images:     images,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (s *ImageCleanupService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventProductImageReplaced, s.handleImageReplaced)
	s.dispatcher.Subscribe(events.EventProductDeleted, s.handleProductDeleted)
}

func (s *ImageCleanupService) handleImageReplaced(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ProductImageReplacedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	return s.release(ctx, event.ProductID, payload.OldPublicID)
}

func (s *ImageCleanupService) handleProductDeleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ProductDeletedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	return s.release(ctx, event.ProductID, payload.PublicID)
}

func (s *ImageCleanupService) release(ctx context.Context, productID, publicID string) error {
	if !imagehost.IsHosted(publicID) {
		return nil
	}
	host, err := s.images.Host()
	if err != nil {
		s.logger.Info("skipping image cleanup", zap.String("public_id", publicID), zap.Error(err))
		return nil
	}
	if err := host.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("delete image %s: %w", publicID, err)
	}
	s.logger.Info("hosted image deleted", zap.String("product_id", productID), zap.String("public_id", publicID))
	return nil
}
