package models

import (
	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	TenantAggregateModel
	InternalCode       string              `gorm:"type:varchar(50);index"`
	BarCode            string              `gorm:"type:varchar(50);index"`
	Name               string              `gorm:"type:varchar(200);not null;index"`
	Type               catalog.ProductType `gorm:"type:varchar(30);not null;index"`
	CostValue          decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	SaleValue          decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	CurrentStock       int                 `gorm:"not null;default:0"`
	MinimumStock       int                 `gorm:"not null;default:0"`
	ContainerProductID *uuid.UUID          `gorm:"type:uuid"`
	Active             bool                `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	product := &catalog.Product{
		InternalCode:       m.InternalCode,
		BarCode:            m.BarCode,
		Name:               m.Name,
		Type:               m.Type,
		CostValue:          valueobject.NewMoneyBRL(m.CostValue),
		SaleValue:          valueobject.NewMoneyBRL(m.SaleValue),
		CurrentStock:       m.CurrentStock,
		MinimumStock:       m.MinimumStock,
		ContainerProductID: m.ContainerProductID,
		Active:             m.Active,
	}
	m.PopulateTenantAggregateRoot(&product.TenantAggregateRoot)
	return product
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.InternalCode = p.InternalCode
	m.BarCode = p.BarCode
	m.Name = p.Name
	m.Type = p.Type
	m.CostValue = p.CostValue.Amount()
	m.SaleValue = p.SaleValue.Amount()
	m.CurrentStock = p.CurrentStock
	m.MinimumStock = p.MinimumStock
	m.ContainerProductID = p.ContainerProductID
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
