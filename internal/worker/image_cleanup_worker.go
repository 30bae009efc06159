package worker

import (
	"github.com/spec-kit/catalog-admin/internal/service"
)

// StartImageCleanupWorker registers the hosted-image cleanup handlers.
func StartImageCleanupWorker(cleanup *service.ImageCleanupService) {
	if cleanup == nil {
		return
	}
	cleanup.RegisterHandlers()
}
