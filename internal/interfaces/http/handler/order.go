package handler

import (
	"time"

	salesapp "github.com/gestor/backend/internal/application/sales"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *salesapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *salesapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// SaveOrderRequest represents a request to create or resubmit an order
type SaveOrderRequest struct {
	CustomerID       *string             `json:"customer_id" binding:"omitempty,uuid"`
	DeliveryPersonID *string             `json:"delivery_person_id" binding:"omitempty,uuid"`
	DeliveryFee      float64             `json:"delivery_fee" binding:"omitempty,gte=0"`
	Observation      string              `json:"observation" binding:"omitempty,max=1000"`
	Items            []OrderItemInput    `json:"items"`
	Payments         []OrderPaymentInput `json:"payments"`
}

// OrderItemInput represents an item in an order request
type OrderItemInput struct {
	ProductID   string   `json:"product_id" binding:"required,uuid"`
	Description string   `json:"description" binding:"omitempty,max=200"`
	Quantity    int      `json:"quantity" binding:"required,gt=0"`
	UnitPrice   *float64 `json:"unit_price" binding:"omitempty,gte=0"`
}

// OrderPaymentInput represents a payment allocation in an order request.
// Value omitted on a single payment means "cover the full total".
type OrderPaymentInput struct {
	PaymentMethodID string   `json:"payment_method_id" binding:"required,uuid"`
	Value           *float64 `json:"value" binding:"omitempty,gt=0"`
}

// ChangeOrderStatusRequest represents a request to move an order through
// its lifecycle
type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrdersRequest represents order list query parameters
type ListOrdersRequest struct {
	dto.ListRequest
	CustomerID *string    `form:"customer_id" binding:"omitempty,uuid"`
	Status     *string    `form:"status"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02T15:04:05Z07:00"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02T15:04:05Z07:00"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID               string                 `json:"id"`
	Number           string                 `json:"number"`
	CustomerID       *string                `json:"customer_id,omitempty"`
	DeliveryPersonID *string                `json:"delivery_person_id,omitempty"`
	OrderDate        time.Time              `json:"order_date"`
	Status           string                 `json:"status"`
	DeliveryFee      float64                `json:"delivery_fee"`
	TotalValue       float64                `json:"total_value"`
	Observation      string                 `json:"observation,omitempty"`
	Items            []OrderItemResponse    `json:"items"`
	Payments         []OrderPaymentResponse `json:"payments"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Version          int                    `json:"version"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// OrderPaymentResponse represents a payment allocation in API responses
type OrderPaymentResponse struct {
	ID              string  `json:"id"`
	PaymentMethodID string  `json:"payment_method_id"`
	Value           float64 `json:"value"`
	Change          float64 `json:"change"`
}

func toOrderResponse(order *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Float64(),
			TotalPrice:  item.TotalPrice.Float64(),
		}
	}
	payments := make([]OrderPaymentResponse, len(order.Payments))
	for i, p := range order.Payments {
		payments[i] = OrderPaymentResponse{
			ID:              p.ID.String(),
			PaymentMethodID: p.PaymentMethodID.String(),
			Value:           p.Value.Float64(),
			Change:          p.Change.Float64(),
		}
	}
	var customerID, deliveryPersonID *string
	if order.CustomerID != nil {
		id := order.CustomerID.String()
		customerID = &id
	}
	if order.DeliveryPersonID != nil {
		id := order.DeliveryPersonID.String()
		deliveryPersonID = &id
	}
	return OrderResponse{
		ID:               order.ID.String(),
		Number:           order.Number,
		CustomerID:       customerID,
		DeliveryPersonID: deliveryPersonID,
		OrderDate:        order.OrderDate,
		Status:           string(order.Status),
		DeliveryFee:      order.DeliveryFee.Float64(),
		TotalValue:       order.TotalValue.Float64(),
		Observation:      order.Observation,
		Items:            items,
		Payments:         payments,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		Version:          order.Version,
	}
}

func toOrderResponses(orders []sales.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = toOrderResponse(&orders[i])
	}
	return responses
}

func (r SaveOrderRequest) toAppRequest() (salesapp.SaveOrderRequest, error) {
	appReq := salesapp.SaveOrderRequest{
		DeliveryFee: valueobject.NewMoneyBRLFromFloat(r.DeliveryFee),
		Observation: r.Observation,
	}
	if r.CustomerID != nil && *r.CustomerID != "" {
		customerID, err := uuid.Parse(*r.CustomerID)
		if err != nil {
			return appReq, err
		}
		appReq.CustomerID = &customerID
	}
	if r.DeliveryPersonID != nil && *r.DeliveryPersonID != "" {
		deliveryPersonID, err := uuid.Parse(*r.DeliveryPersonID)
		if err != nil {
			return appReq, err
		}
		appReq.DeliveryPersonID = &deliveryPersonID
	}
	for _, item := range r.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return appReq, err
		}
		input := salesapp.OrderItemInput{
			ProductID:   productID,
			Description: item.Description,
			Quantity:    item.Quantity,
		}
		if item.UnitPrice != nil {
			price := valueobject.NewMoneyBRLFromFloat(*item.UnitPrice)
			input.UnitPrice = &price
		}
		appReq.Items = append(appReq.Items, input)
	}
	for _, payment := range r.Payments {
		methodID, err := uuid.Parse(payment.PaymentMethodID)
		if err != nil {
			return appReq, err
		}
		input := salesapp.OrderPaymentInput{PaymentMethodID: methodID}
		if payment.Value != nil {
			value := valueobject.NewMoneyBRLFromFloat(*payment.Value)
			input.Value = &value
		}
		appReq.Payments = append(appReq.Payments, input)
	}
	return appReq, nil
}

// Create godoc
// @Summary      Create a new order
// @Description  Create an order in NEW status; the total is computed server-side
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body SaveOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SaveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toAppRequest()
	if err != nil {
		h.BadRequest(c, "Invalid UUID in request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), tenantID, getUserIDPtr(c), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toOrderResponse(order))
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search query string false "Search term (number, observation)"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        status query string false "Order status" Enums(NEW, DELIVERING, DELIVERED, COMPLETED, CANCELED)
// @Param        from_date query string false "Order date range start" format(date-time)
// @Param        to_date query string false "Order date range end" format(date-time)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := sales.OrderFilter{Filter: req.ToFilter()}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &customerID
	}
	if req.Status != nil {
		status := sales.OrderStatus(*req.Status)
		filter.Status = &status
	}
	filter.FromDate = req.FromDate
	filter.ToDate = req.ToDate

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(orders), total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update an order
// @Description  Resubmit items, payments, fee and observation; totals are recomputed
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body SaveOrderRequest true "Order update request"
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req SaveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toAppRequest()
	if err != nil {
		h.BadRequest(c, "Invalid UUID in request body")
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), tenantID, orderID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

// ChangeStatus godoc
// @Summary      Change order status
// @Description  Move the order through its lifecycle; completing an order
// @Description  decrements stock, generates receivables and feeds the cash register
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ChangeOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/status [post]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ChangeOrderStatus(c.Request.Context(), tenantID, orderID, getUserIDPtr(c), sales.OrderStatus(req.Status))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}
