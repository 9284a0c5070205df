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

// CashRegisterHandler handles cash register and ledger API endpoints
type CashRegisterHandler struct {
	BaseHandler
	registerService *financeapp.CashRegisterService
}

// NewCashRegisterHandler creates a new CashRegisterHandler
func NewCashRegisterHandler(registerService *financeapp.CashRegisterService) *CashRegisterHandler {
	return &CashRegisterHandler{registerService: registerService}
}

// OpenCashRegisterRequest represents a request to open a register session
type OpenCashRegisterRequest struct {
	InitialAmount float64 `json:"initial_amount" binding:"omitempty,gte=0"`
}

// CloseCashRegisterRequest represents a request to close a register session
// with the counted final amount
type CloseCashRegisterRequest struct {
	FinalAmount float64 `json:"final_amount" binding:"omitempty,gte=0"`
}

// PostCashMovementRequest represents a manual ledger entry
type PostCashMovementRequest struct {
	Type            string  `json:"type" binding:"required"`
	Value           float64 `json:"value" binding:"required,gt=0"`
	Description     string  `json:"description" binding:"omitempty,max=500"`
	PaymentMethodID *string `json:"payment_method_id" binding:"omitempty,uuid"`
}

// ListCashMovementsRequest represents ledger list query parameters
type ListCashMovementsRequest struct {
	dto.ListRequest
	RegisterID *string    `form:"register_id" binding:"omitempty,uuid"`
	Type       *string    `form:"type"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02T15:04:05Z07:00"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02T15:04:05Z07:00"`
}

// CashRegisterResponse represents a register session in API responses.
// Balance is always derived: initial amount plus signed movements.
type CashRegisterResponse struct {
	ID            string                 `json:"id"`
	Status        string                 `json:"status"`
	OpeningDate   time.Time              `json:"opening_date"`
	ClosingDate   *time.Time             `json:"closing_date,omitempty"`
	InitialAmount float64                `json:"initial_amount"`
	FinalAmount   float64                `json:"final_amount"`
	Balance       float64                `json:"balance"`
	Movements     []CashMovementResponse `json:"movements"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Version       int                    `json:"version"`
}

// CloseCashRegisterResponse carries the closed session and the difference
// between the counted amount and the computed balance
type CloseCashRegisterResponse struct {
	Register   CashRegisterResponse `json:"register"`
	Difference float64              `json:"difference"`
}

// CashMovementResponse represents a ledger entry in API responses.
// Value carries the stored sign: negative for withdrawals.
type CashMovementResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Value           float64   `json:"value"`
	Description     string    `json:"description,omitempty"`
	PaymentMethodID *string   `json:"payment_method_id,omitempty"`
	UserID          *string   `json:"user_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func toCashMovementResponse(movement finance.CashMovement) CashMovementResponse {
	var methodID, userID *string
	if movement.PaymentMethodID != nil {
		id := movement.PaymentMethodID.String()
		methodID = &id
	}
	if movement.UserID != nil {
		id := movement.UserID.String()
		userID = &id
	}
	return CashMovementResponse{
		ID:              movement.ID.String(),
		Type:            string(movement.Type),
		Value:           movement.Value.Float64(),
		Description:     movement.Description,
		PaymentMethodID: methodID,
		UserID:          userID,
		OccurredAt:      movement.OccurredAt,
	}
}

func toCashMovementResponses(movements []finance.CashMovement) []CashMovementResponse {
	responses := make([]CashMovementResponse, len(movements))
	for i := range movements {
		responses[i] = toCashMovementResponse(movements[i])
	}
	return responses
}

func toCashRegisterResponse(register *finance.CashRegister) CashRegisterResponse {
	return CashRegisterResponse{
		ID:            register.ID.String(),
		Status:        string(register.Status),
		OpeningDate:   register.OpeningDate,
		ClosingDate:   register.ClosingDate,
		InitialAmount: register.InitialAmount.Float64(),
		FinalAmount:   register.FinalAmount.Float64(),
		Balance:       register.Balance().Float64(),
		Movements:     toCashMovementResponses(register.Movements),
		CreatedAt:     register.CreatedAt,
		UpdatedAt:     register.UpdatedAt,
		Version:       register.Version,
	}
}

func toCashRegisterResponses(registers []finance.CashRegister) []CashRegisterResponse {
	responses := make([]CashRegisterResponse, len(registers))
	for i := range registers {
		responses[i] = toCashRegisterResponse(&registers[i])
	}
	return responses
}

// Open godoc
// @Summary      Open a cash register session
// @Description  Only one session can be open per organization at a time
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Param        X-Idempotency-Key header string false "Idempotency key"
// @Param        request body OpenCashRegisterRequest true "Opening float"
// @Success      201 {object} dto.Response{data=CashRegisterResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-registers [post]
func (h *CashRegisterHandler) Open(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req OpenCashRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	register, err := h.registerService.OpenCashRegister(c.Request.Context(), tenantID, getUserIDPtr(c),
		valueobject.NewMoneyBRLFromFloat(req.InitialAmount))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toCashRegisterResponse(register))
}

// GetCurrent godoc
// @Summary      Get the currently open register session
// @Tags         cash-registers
// @Produce      json
// @Success      200 {object} dto.Response{data=CashRegisterResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-registers/current [get]
func (h *CashRegisterHandler) GetCurrent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	register, err := h.registerService.GetCurrentCashRegister(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toCashRegisterResponse(register))
}

// GetByID godoc
// @Summary      Get register session by ID
// @Tags         cash-registers
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Success      200 {object} dto.Response{data=CashRegisterResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-registers/{id} [get]
func (h *CashRegisterHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	register, err := h.registerService.GetCashRegister(c.Request.Context(), tenantID, registerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toCashRegisterResponse(register))
}

// List godoc
// @Summary      List register sessions
// @Tags         cash-registers
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]CashRegisterResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /cash-registers [get]
func (h *CashRegisterHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	registers, total, err := h.registerService.ListCashRegisters(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toCashRegisterResponses(registers), total, filter.Page, filter.PageSize)
}

// Close godoc
// @Summary      Close a register session
// @Description  Records the counted final amount and returns the difference
// @Description  against the computed balance
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Param        X-Idempotency-Key header string false "Idempotency key"
// @Param        request body CloseCashRegisterRequest true "Counted final amount"
// @Success      200 {object} dto.Response{data=CloseCashRegisterResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-registers/{id}/close [put]
func (h *CashRegisterHandler) Close(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	var req CloseCashRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	register, difference, err := h.registerService.CloseCashRegister(c.Request.Context(), tenantID, registerID,
		valueobject.NewMoneyBRLFromFloat(req.FinalAmount))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CloseCashRegisterResponse{
		Register:   toCashRegisterResponse(register),
		Difference: difference.Float64(),
	})
}

// PostMovement godoc
// @Summary      Post a manual cash movement
// @Description  Records a ledger entry on the open session; WITHDRAWAL
// @Description  entries are stored negative and cannot overdraw the balance
// @Tags         cash-movements
// @Accept       json
// @Produce      json
// @Param        X-Idempotency-Key header string false "Idempotency key"
// @Param        request body PostCashMovementRequest true "Movement request"
// @Success      201 {object} dto.Response{data=CashMovementResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-movements [post]
func (h *CashRegisterHandler) PostMovement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PostCashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := financeapp.PostMovementRequest{
		Type:        finance.CashMovementType(req.Type),
		Value:       valueobject.NewMoneyBRLFromFloat(req.Value),
		Description: req.Description,
	}
	if req.PaymentMethodID != nil && *req.PaymentMethodID != "" {
		methodID, err := uuid.Parse(*req.PaymentMethodID)
		if err != nil {
			h.BadRequest(c, "Invalid payment method ID format")
			return
		}
		appReq.PaymentMethodID = &methodID
	}

	movement, err := h.registerService.PostMovement(c.Request.Context(), tenantID, getUserIDPtr(c), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toCashMovementResponse(*movement))
}

// ListMovements godoc
// @Summary      List cash movements
// @Description  Ledger entries across sessions, newest first
// @Tags         cash-movements
// @Produce      json
// @Param        register_id query string false "Register session ID" format(uuid)
// @Param        type query string false "Movement type" Enums(SALE, RECEIVABLE_PAYMENT, WITHDRAWAL, DEPOSIT, ADJUSTMENT)
// @Param        from_date query string false "Occurrence range start" format(date-time)
// @Param        to_date query string false "Occurrence range end" format(date-time)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]CashMovementResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /cash-movements [get]
func (h *CashRegisterHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListCashMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := finance.CashMovementFilter{Filter: req.ToFilter()}
	if req.RegisterID != nil {
		registerID, err := uuid.Parse(*req.RegisterID)
		if err != nil {
			h.BadRequest(c, "Invalid register ID format")
			return
		}
		filter.RegisterID = &registerID
	}
	if req.Type != nil {
		movementType := finance.CashMovementType(*req.Type)
		filter.Type = &movementType
	}
	filter.FromDate = req.FromDate
	filter.ToDate = req.ToDate

	movements, total, err := h.registerService.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toCashMovementResponses(movements), total, filter.Page, filter.PageSize)
}
