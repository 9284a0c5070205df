package catalog

import (
	"context"
	"fmt"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductService handles product use cases
type ProductService struct {
	products catalog.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(products catalog.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// SaveProductRequest carries the data to create or update a product
type SaveProductRequest struct {
	Name               string
	Type               catalog.ProductType
	InternalCode       string
	BarCode            string
	CostValue          valueobject.Money
	SaleValue          valueobject.Money
	MinimumStock       int
	ContainerProductID *uuid.UUID
}

// CreateProduct creates a new product for the tenant
func (s *ProductService) CreateProduct(ctx context.Context, tenantID uuid.UUID, req SaveProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(tenantID, req.Name, req.Type, req.SaleValue)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, tenantID, product, req); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return product, nil
}

// UpdateProduct updates an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, tenantID, id uuid.UUID, req SaveProductRequest) (*catalog.Product, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, tenantID, product, req); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return product, nil
}

// apply runs the shared mutation path for create and update
func (s *ProductService) apply(ctx context.Context, tenantID uuid.UUID, product *catalog.Product, req SaveProductRequest) error {
	if err := product.Update(req.Name, req.Type, req.CostValue, req.SaleValue, req.MinimumStock); err != nil {
		return err
	}
	product.SetCodes(req.InternalCode, req.BarCode)

	if req.ContainerProductID != nil {
		container, err := s.products.FindByIDForTenant(ctx, tenantID, *req.ContainerProductID)
		if err != nil {
			return err
		}
		if container.Type != catalog.ProductTypeContainer {
			return shared.NewValidationError("linked product is not a container")
		}
	}
	return product.LinkContainer(req.ContainerProductID)
}

// GetProduct returns a single product
func (s *ProductService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByIDForTenant(ctx, tenantID, id)
}

// ListProducts returns products matching the filter plus the total count
func (s *ProductService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	products, err := s.products.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// DeactivateProduct soft-deletes a product
func (s *ProductService) DeactivateProduct(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	if err := s.products.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}
