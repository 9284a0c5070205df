package catalog

import (
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductType distinguishes plain products from returnable-container flows
type ProductType string

const (
	ProductTypeSimple              ProductType = "SIMPLE"
	ProductTypeContainer           ProductType = "CONTAINER"
	ProductTypeWithContainerReturn ProductType = "WITH_CONTAINER_RETURN"
)

// IsValid checks if the product type is valid
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeSimple, ProductTypeContainer, ProductTypeWithContainerReturn:
		return true
	}
	return false
}

// Product is a sellable item. WITH_CONTAINER_RETURN products link to the
// CONTAINER product that comes back from the customer (water jugs, gas
// cylinders). Products are soft-deleted via the Active flag.
type Product struct {
	shared.TenantAggregateRoot
	InternalCode       string
	BarCode            string
	Name               string
	Type               ProductType
	CostValue          valueobject.Money
	SaleValue          valueobject.Money
	CurrentStock       int
	MinimumStock       int
	ContainerProductID *uuid.UUID
	Active             bool
}

// NewProduct creates a new active product
func NewProduct(tenantID uuid.UUID, name string, productType ProductType, saleValue valueobject.Money) (*Product, error) {
	if name == "" {
		return nil, shared.NewValidationError("product name is required")
	}
	if !productType.IsValid() {
		return nil, shared.NewValidationError("invalid product type: " + string(productType))
	}
	if saleValue.IsNegative() {
		return nil, shared.NewValidationError("product sale value cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                productType,
		CostValue:           valueobject.ZeroBRL(),
		SaleValue:           saleValue,
		Active:              true,
	}, nil
}

// Update changes the product's attributes
func (p *Product) Update(name string, productType ProductType, costValue, saleValue valueobject.Money, minimumStock int) error {
	if name == "" {
		return shared.NewValidationError("product name is required")
	}
	if !productType.IsValid() {
		return shared.NewValidationError("invalid product type: " + string(productType))
	}
	if costValue.IsNegative() || saleValue.IsNegative() {
		return shared.NewValidationError("product values cannot be negative")
	}
	if minimumStock < 0 {
		return shared.NewValidationError("minimum stock cannot be negative")
	}

	p.Name = name
	p.Type = productType
	p.CostValue = costValue
	p.SaleValue = saleValue
	p.MinimumStock = minimumStock
	return nil
}

// SetCodes sets the internal and bar codes
func (p *Product) SetCodes(internalCode, barCode string) {
	p.InternalCode = internalCode
	p.BarCode = barCode
}

// LinkContainer links a WITH_CONTAINER_RETURN product to its container
func (p *Product) LinkContainer(containerProductID *uuid.UUID) error {
	if containerProductID != nil && p.Type != ProductTypeWithContainerReturn {
		return shared.NewValidationError("only WITH_CONTAINER_RETURN products can link a container")
	}
	p.ContainerProductID = containerProductID
	return nil
}

// AdjustStock applies a signed stock delta
func (p *Product) AdjustStock(delta int) {
	p.CurrentStock += delta
}

// BelowMinimumStock reports whether the product needs restocking
func (p *Product) BelowMinimumStock() bool {
	return p.MinimumStock > 0 && p.CurrentStock < p.MinimumStock
}

// Deactivate soft-deletes the product
func (p *Product) Deactivate() {
	p.Active = false
}

// Activate restores a soft-deleted product
func (p *Product) Activate() {
	p.Active = true
}
