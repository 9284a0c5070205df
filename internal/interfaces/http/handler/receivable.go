package handler

import (
	"time"

	financeapp "github.com/gestor/backend/internal/application/finance"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceivableHandler handles receivable-related API endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// CreateReceivableRequest represents a request to create a standalone receivable
type CreateReceivableRequest struct {
	CustomerID  *string   `json:"customer_id" binding:"omitempty,uuid"`
	Description string    `json:"description" binding:"omitempty,max=500"`
	TotalValue  float64   `json:"total_value" binding:"required,gt=0"`
	DueDate     time.Time `json:"due_date" binding:"required"`
}

// RegisterReceivablePaymentRequest represents a payment against a receivable
type RegisterReceivablePaymentRequest struct {
	Value           float64    `json:"value" binding:"required,gt=0"`
	PaymentDate     *time.Time `json:"payment_date"`
	PaymentMethodID *string    `json:"payment_method_id" binding:"omitempty,uuid"`
	Observation     string     `json:"observation" binding:"omitempty,max=500"`
}

// ListReceivablesRequest represents receivable list query parameters
type ListReceivablesRequest struct {
	dto.ListRequest
	CustomerID *string    `form:"customer_id" binding:"omitempty,uuid"`
	OrderID    *string    `form:"order_id" binding:"omitempty,uuid"`
	Status     *string    `form:"status"`
	DueFrom    *time.Time `form:"due_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DueTo      *time.Time `form:"due_to" time_format:"2006-01-02T15:04:05Z07:00"`
	Overdue    *bool      `form:"overdue"`
}

// ReceivableResponse represents a receivable in API responses.
// Status is the effective status: OVERDUE is derived from the due date
// at read time and never stored.
type ReceivableResponse struct {
	ID            string                      `json:"id"`
	Number        string                      `json:"number"`
	CustomerID    *string                     `json:"customer_id,omitempty"`
	OrderID       *string                     `json:"order_id,omitempty"`
	Description   string                      `json:"description,omitempty"`
	DueDate       time.Time                   `json:"due_date"`
	TotalValue    float64                     `json:"total_value"`
	ReceivedValue float64                     `json:"received_value"`
	Outstanding   float64                     `json:"outstanding"`
	Status        string                      `json:"status"`
	Payments      []ReceivablePaymentResponse `json:"payments"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	Version       int                         `json:"version"`
}

// ReceivablePaymentResponse represents a posted payment in API responses
type ReceivablePaymentResponse struct {
	ID              string    `json:"id"`
	Value           string    `json:"value"`
	PaymentDate     time.Time `json:"payment_date"`
	PaymentMethodID *string   `json:"payment_method_id,omitempty"`
	CashRegisterID  *string   `json:"cash_register_id,omitempty"`
	Observation     string    `json:"observation,omitempty"`
}

func toReceivableResponse(receivable *finance.Receivable) ReceivableResponse {
	payments := make([]ReceivablePaymentResponse, len(receivable.Payments))
	for i, p := range receivable.Payments {
		var methodID, registerID *string
		if p.PaymentMethodID != nil {
			id := p.PaymentMethodID.String()
			methodID = &id
		}
		if p.CashRegisterID != nil {
			id := p.CashRegisterID.String()
			registerID = &id
		}
		payments[i] = ReceivablePaymentResponse{
			ID:              p.ID.String(),
			Value:           p.Value,
			PaymentDate:     p.PaymentDate,
			PaymentMethodID: methodID,
			CashRegisterID:  registerID,
			Observation:     p.Observation,
		}
	}
	var customerID, orderID *string
	if receivable.CustomerID != nil {
		id := receivable.CustomerID.String()
		customerID = &id
	}
	if receivable.OrderID != nil {
		id := receivable.OrderID.String()
		orderID = &id
	}
	return ReceivableResponse{
		ID:            receivable.ID.String(),
		Number:        receivable.Number,
		CustomerID:    customerID,
		OrderID:       orderID,
		Description:   receivable.Description,
		DueDate:       receivable.DueDate,
		TotalValue:    receivable.TotalValue.Float64(),
		ReceivedValue: receivable.ReceivedValue.Float64(),
		Outstanding:   receivable.Outstanding().Float64(),
		Status:        string(receivable.EffectiveStatus(time.Now())),
		Payments:      payments,
		CreatedAt:     receivable.CreatedAt,
		UpdatedAt:     receivable.UpdatedAt,
		Version:       receivable.Version,
	}
}

func toReceivableResponses(receivables []finance.Receivable) []ReceivableResponse {
	responses := make([]ReceivableResponse, len(receivables))
	for i := range receivables {
		responses[i] = toReceivableResponse(&receivables[i])
	}
	return responses
}

// Create godoc
// @Summary      Create a standalone receivable
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        request body CreateReceivableRequest true "Receivable creation request"
// @Success      201 {object} dto.Response{data=ReceivableResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receivables [post]
func (h *ReceivableHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := financeapp.CreateReceivableRequest{
		Description: req.Description,
		TotalValue:  valueobject.NewMoneyBRLFromFloat(req.TotalValue),
		DueDate:     req.DueDate,
	}
	if req.CustomerID != nil && *req.CustomerID != "" {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		appReq.CustomerID = &customerID
	}

	receivable, err := h.receivableService.CreateReceivable(c.Request.Context(), tenantID, getUserIDPtr(c), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toReceivableResponse(receivable))
}

// GetByID godoc
// @Summary      Get receivable by ID
// @Tags         receivables
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      200 {object} dto.Response{data=ReceivableResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receivables/{id} [get]
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	receivableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	receivable, err := h.receivableService.GetReceivable(c.Request.Context(), tenantID, receivableID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toReceivableResponse(receivable))
}

// List godoc
// @Summary      List receivables
// @Tags         receivables
// @Produce      json
// @Param        search query string false "Search term (number, description)"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        order_id query string false "Originating order ID" format(uuid)
// @Param        status query string false "Persisted status" Enums(OPEN, PARTIAL_RECEIVED, RECEIVED)
// @Param        overdue query bool false "Only overdue receivables"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]ReceivableResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /receivables [get]
func (h *ReceivableHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListReceivablesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := finance.ReceivableFilter{Filter: req.ToFilter()}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &customerID
	}
	if req.OrderID != nil {
		orderID, err := uuid.Parse(*req.OrderID)
		if err != nil {
			h.BadRequest(c, "Invalid order ID format")
			return
		}
		filter.OrderID = &orderID
	}
	if req.Status != nil {
		status := finance.ReceivableStatus(*req.Status)
		filter.Status = &status
	}
	filter.DueFrom = req.DueFrom
	filter.DueTo = req.DueTo
	filter.Overdue = req.Overdue

	receivables, total, err := h.receivableService.ListReceivables(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toReceivableResponses(receivables), total, filter.Page, filter.PageSize)
}

// RegisterPayment godoc
// @Summary      Register a payment against a receivable
// @Description  Posts an immutable payment record; with an open cash register
// @Description  the payment also posts a RECEIVABLE_PAYMENT movement
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Param        X-Idempotency-Key header string false "Idempotency key"
// @Param        request body RegisterReceivablePaymentRequest true "Payment request"
// @Success      200 {object} dto.Response{data=ReceivableResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receivables/{id}/payments [post]
func (h *ReceivableHandler) RegisterPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	receivableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req RegisterReceivablePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := financeapp.RegisterPaymentRequest{
		Value:       valueobject.NewMoneyBRLFromFloat(req.Value),
		Observation: req.Observation,
	}
	if req.PaymentDate != nil {
		appReq.PaymentDate = *req.PaymentDate
	}
	if req.PaymentMethodID != nil && *req.PaymentMethodID != "" {
		methodID, err := uuid.Parse(*req.PaymentMethodID)
		if err != nil {
			h.BadRequest(c, "Invalid payment method ID format")
			return
		}
		appReq.PaymentMethodID = &methodID
	}

	receivable, err := h.receivableService.RegisterPayment(c.Request.Context(), tenantID, receivableID, getUserIDPtr(c), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toReceivableResponse(receivable))
}
