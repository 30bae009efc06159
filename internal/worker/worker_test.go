package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/events"
	"github.com/spec-kit/catalog-admin/internal/repository/repositorytest"
	"github.com/spec-kit/catalog-admin/internal/service"
	"github.com/spec-kit/catalog-admin/internal/validation"
)

func TestCatalogAuditWorkerLogsProductLifecycle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)
	StartCatalogAuditWorker(dispatcher, logger)

	products := service.NewProductService(service.ProductDependencies{
		ProductRepo: repositorytest.NewProductRepository(),
		Validator:   validation.New(),
		Dispatcher:  dispatcher,
	})
	ctx := context.Background()

	p, err := products.Create(ctx, "admin-1", domain.ProductInput{
		Name: "Widget", Description: "A widget", Price: 9.99, Category: "Tools", Stock: 5,
		ImageURL: "https://res.cloudinary.com/demo/widget.jpg",
	})
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, "admin-1", p.ID))

	entries := logs.FilterMessage("catalog change").AllUntimed()
	require.Len(t, entries, 2)

	created := entries[0].ContextMap()
	assert.Equal(t, string(events.EventProductCreated), created["event"])
	assert.Equal(t, p.ID, created["product_id"])
	assert.Equal(t, "admin-1", created["actor_id"])
	assert.Equal(t, "Tools", created["category"])

	assert.Equal(t, string(events.EventProductDeleted), entries[1].ContextMap()["event"])
}

func TestStartWorkersToleratesMissingCollaborators(t *testing.T) {
	assert.NotPanics(t, func() {
		StartCatalogAuditWorker(nil, zap.NewNop())
		StartImageCleanupWorker(nil)
	})
}
