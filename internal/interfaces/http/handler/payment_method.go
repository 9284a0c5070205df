package handler

import (
	"time"

	salesapp "github.com/gestor/backend/internal/application/sales"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentMethodHandler handles payment-method-related API endpoints
type PaymentMethodHandler struct {
	BaseHandler
	methodService *salesapp.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(methodService *salesapp.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// SavePaymentMethodRequest represents a request to create or update a payment method
type SavePaymentMethodRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Type    string `json:"type" binding:"required"`
	DueDays int    `json:"due_days" binding:"omitempty,gte=0"`
}

// ListPaymentMethodsRequest represents payment method list query parameters
type ListPaymentMethodsRequest struct {
	dto.ListRequest
	Type   *string `form:"type"`
	Active *bool   `form:"active"`
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	DueDays   int       `json:"due_days"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

func toPaymentMethodResponse(method *sales.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:        method.ID.String(),
		Name:      method.Name,
		Type:      string(method.Type),
		DueDays:   method.DueDays,
		Active:    method.Active,
		CreatedAt: method.CreatedAt,
		UpdatedAt: method.UpdatedAt,
		Version:   method.Version,
	}
}

func toPaymentMethodResponses(methods []sales.PaymentMethod) []PaymentMethodResponse {
	responses := make([]PaymentMethodResponse, len(methods))
	for i := range methods {
		responses[i] = toPaymentMethodResponse(&methods[i])
	}
	return responses
}

// Create godoc
// @Summary      Create a new payment method
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        request body SavePaymentMethodRequest true "Payment method creation request"
// @Success      201 {object} dto.Response{data=PaymentMethodResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-methods [post]
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SavePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method, err := h.methodService.CreatePaymentMethod(c.Request.Context(), tenantID, salesapp.SavePaymentMethodRequest{
		Name:    req.Name,
		Type:    sales.PaymentMethodType(req.Type),
		DueDays: req.DueDays,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toPaymentMethodResponse(method))
}

// GetByID godoc
// @Summary      Get payment method by ID
// @Tags         payment-methods
// @Produce      json
// @Param        id path string true "Payment Method ID" format(uuid)
// @Success      200 {object} dto.Response{data=PaymentMethodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-methods/{id} [get]
func (h *PaymentMethodHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	method, err := h.methodService.GetPaymentMethod(c.Request.Context(), tenantID, methodID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPaymentMethodResponse(method))
}

// List godoc
// @Summary      List payment methods
// @Tags         payment-methods
// @Produce      json
// @Param        search query string false "Search term (name)"
// @Param        type query string false "Method type" Enums(CASH, CREDIT_CARD, DEBIT_CARD, PIX, TRANSFER, CHECK, RECEIVABLE, OTHER)
// @Param        active query bool false "Active flag"
// @Success      200 {object} dto.Response{data=[]PaymentMethodResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /payment-methods [get]
func (h *PaymentMethodHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListPaymentMethodsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := sales.PaymentMethodFilter{Filter: req.ToFilter()}
	if req.Type != nil {
		methodType := sales.PaymentMethodType(*req.Type)
		filter.Type = &methodType
	}
	filter.Active = req.Active

	methods, total, err := h.methodService.ListPaymentMethods(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPaymentMethodResponses(methods), total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a payment method
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment Method ID" format(uuid)
// @Param        request body SavePaymentMethodRequest true "Payment method update request"
// @Success      200 {object} dto.Response{data=PaymentMethodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-methods/{id} [put]
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	var req SavePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method, err := h.methodService.UpdatePaymentMethod(c.Request.Context(), tenantID, methodID, salesapp.SavePaymentMethodRequest{
		Name:    req.Name,
		Type:    sales.PaymentMethodType(req.Type),
		DueDays: req.DueDays,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPaymentMethodResponse(method))
}

// Delete godoc
// @Summary      Deactivate a payment method
// @Description  Soft-delete: past orders keep referencing the method
// @Tags         payment-methods
// @Param        id path string true "Payment Method ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-methods/{id} [delete]
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	if err := h.methodService.DeactivatePaymentMethod(c.Request.Context(), tenantID, methodID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
