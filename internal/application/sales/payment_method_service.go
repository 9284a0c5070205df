package sales

import (
	"context"
	"fmt"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/google/uuid"
)

// PaymentMethodService handles payment method use cases
type PaymentMethodService struct {
	methods sales.PaymentMethodRepository
}

// NewPaymentMethodService creates a new payment method service
func NewPaymentMethodService(methods sales.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methods: methods}
}

// SavePaymentMethodRequest carries the data to create or update a payment method
type SavePaymentMethodRequest struct {
	Name    string
	Type    sales.PaymentMethodType
	DueDays int
}

// CreatePaymentMethod creates a new payment method for the tenant
func (s *PaymentMethodService) CreatePaymentMethod(ctx context.Context, tenantID uuid.UUID, req SavePaymentMethodRequest) (*sales.PaymentMethod, error) {
	method, err := sales.NewPaymentMethod(tenantID, req.Name, req.Type, req.DueDays)
	if err != nil {
		return nil, err
	}
	if err := s.methods.Save(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to save payment method: %w", err)
	}
	return method, nil
}

// UpdatePaymentMethod updates an existing payment method
func (s *PaymentMethodService) UpdatePaymentMethod(ctx context.Context, tenantID, id uuid.UUID, req SavePaymentMethodRequest) (*sales.PaymentMethod, error) {
	method, err := s.methods.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := method.Update(req.Name, req.Type, req.DueDays); err != nil {
		return nil, err
	}
	if err := s.methods.Save(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to save payment method: %w", err)
	}
	return method, nil
}

// GetPaymentMethod returns a single payment method
func (s *PaymentMethodService) GetPaymentMethod(ctx context.Context, tenantID, id uuid.UUID) (*sales.PaymentMethod, error) {
	return s.methods.FindByIDForTenant(ctx, tenantID, id)
}

// ListPaymentMethods returns payment methods matching the filter plus the total count
func (s *PaymentMethodService) ListPaymentMethods(ctx context.Context, tenantID uuid.UUID, filter sales.PaymentMethodFilter) ([]sales.PaymentMethod, int64, error) {
	methods, err := s.methods.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.methods.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return methods, total, nil
}

// DeactivatePaymentMethod soft-deletes a payment method so past orders keep
// referencing it
func (s *PaymentMethodService) DeactivatePaymentMethod(ctx context.Context, tenantID, id uuid.UUID) error {
	method, err := s.methods.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	method.Deactivate()
	if err := s.methods.Save(ctx, method); err != nil {
		return fmt.Errorf("failed to save payment method: %w", err)
	}
	return nil
}
