package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/events"
	"github.com/spec-kit/catalog-admin/internal/repository"
	"github.com/spec-kit/catalog-admin/internal/validation"
	apperrors "github.com/spec-kit/catalog-admin/pkg/util"
)

// ProductService coordinates catalog CRUD and the hosted-image lifecycle.
type ProductService struct {
	products   repository.ProductRepository
	validator  *validation.Validator
	dispatcher events.Dispatcher
}

// ProductDependencies bundles collaborators for the product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Validator   *validation.Validator
	Dispatcher  events.Dispatcher
}

// NewProductService constructs the service.
func NewProductService(deps ProductDependencies) *ProductService {
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	return &ProductService{
		products:   deps.ProductRepo,
		validator:  v,
		dispatcher: deps.Dispatcher,
	}
}

// List returns every product, newest first.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Get returns a product by id. Malformed ids are reported as not found.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, productNotFound(id)
	}
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, productNotFound(id)
	}
	return product, err
}

// Create validates the input and stores a new product with zero sales.
func (s *ProductService) Create(ctx context.Context, actorID string, in domain.ProductInput) (*domain.Product, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	product := &domain.Product{}
	product.Apply(in)
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventProductCreated,
		ProductID: product.ID,
		ActorID:   actorID,
		Payload:   events.ProductCreatedPayload{Name: product.Name, Category: product.Category},
	})
	return product, nil
}

// Update replaces the writable fields of a product. When the image changed, the previously
// hosted image is released after the save succeeds.
func (s *ProductService) Update(ctx context.Context, actorID, id string, in domain.ProductInput) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	oldURL, oldPublicID := product.ImageURL, product.ImagePublicID

	product.Apply(in)
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, productNotFound(id)
		}
		return nil, err
	}

	if product.ImageURL != oldURL && oldPublicID != "" && oldPublicID != product.ImagePublicID {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventProductImageReplaced,
			ProductID: product.ID,
			ActorID:   actorID,
			Payload: events.ProductImageReplacedPayload{
				OldImageURL: oldURL,
				OldPublicID: oldPublicID,
				NewImageURL: product.ImageURL,
			},
		})
	}
	return product, nil
}

// Delete removes a product and then releases its hosted image.
func (s *ProductService) Delete(ctx context.Context, actorID, id string) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return productNotFound(id)
		}
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventProductDeleted,
		ProductID: product.ID,
		ActorID:   actorID,
		Payload:   events.ProductDeletedPayload{PublicID: product.ImagePublicID},
	})
	return nil
}

func (s *ProductService) validate(in domain.ProductInput) error {
	if err := s.validator.ValidateProduct(in); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *ProductService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func productNotFound(id string) error {
	return apperrors.NewNotFound("Product", map[string]any{"id": id})
}
