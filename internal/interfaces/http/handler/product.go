package handler

import (
	"time"

	catalogapp "github.com/gestor/backend/internal/application/catalog"
	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// SaveProductRequest represents a request to create or update a product
type SaveProductRequest struct {
	Name               string  `json:"name" binding:"required,min=1,max=200"`
	Type               string  `json:"type" binding:"required"`
	InternalCode       string  `json:"internal_code" binding:"omitempty,max=50"`
	BarCode            string  `json:"bar_code" binding:"omitempty,max=50"`
	CostValue          float64 `json:"cost_value" binding:"omitempty,gte=0"`
	SaleValue          float64 `json:"sale_value" binding:"required,gte=0"`
	MinimumStock       int     `json:"minimum_stock" binding:"omitempty,gte=0"`
	ContainerProductID *string `json:"container_product_id" binding:"omitempty,uuid"`
}

// ListProductsRequest represents product list query parameters
type ListProductsRequest struct {
	dto.ListRequest
	Type         *string `form:"type"`
	Active       *bool   `form:"active"`
	LowStock     *bool   `form:"low_stock"`
	BarCode      *string `form:"bar_code"`
	InternalCode *string `form:"internal_code"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                 string    `json:"id"`
	InternalCode       string    `json:"internal_code,omitempty"`
	BarCode            string    `json:"bar_code,omitempty"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	CostValue          float64   `json:"cost_value"`
	SaleValue          float64   `json:"sale_value"`
	CurrentStock       int       `json:"current_stock"`
	MinimumStock       int       `json:"minimum_stock"`
	ContainerProductID *string   `json:"container_product_id,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Version            int       `json:"version"`
}

func toProductResponse(product *catalog.Product) ProductResponse {
	var containerID *string
	if product.ContainerProductID != nil {
		id := product.ContainerProductID.String()
		containerID = &id
	}
	return ProductResponse{
		ID:                 product.ID.String(),
		InternalCode:       product.InternalCode,
		BarCode:            product.BarCode,
		Name:               product.Name,
		Type:               string(product.Type),
		CostValue:          product.CostValue.Float64(),
		SaleValue:          product.SaleValue.Float64(),
		CurrentStock:       product.CurrentStock,
		MinimumStock:       product.MinimumStock,
		ContainerProductID: containerID,
		Active:             product.Active,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
		Version:            product.Version,
	}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = toProductResponse(&products[i])
	}
	return responses
}

func (r SaveProductRequest) toAppRequest() (catalogapp.SaveProductRequest, error) {
	appReq := catalogapp.SaveProductRequest{
		Name:         r.Name,
		Type:         catalog.ProductType(r.Type),
		InternalCode: r.InternalCode,
		BarCode:      r.BarCode,
		CostValue:    valueobject.NewMoneyBRLFromFloat(r.CostValue),
		SaleValue:    valueobject.NewMoneyBRLFromFloat(r.SaleValue),
		MinimumStock: r.MinimumStock,
	}
	if r.ContainerProductID != nil && *r.ContainerProductID != "" {
		containerID, err := uuid.Parse(*r.ContainerProductID)
		if err != nil {
			return appReq, err
		}
		appReq.ContainerProductID = &containerID
	}
	return appReq, nil
}

// Create godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body SaveProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toAppRequest()
	if err != nil {
		h.BadRequest(c, "Invalid container product ID format")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toProductResponse(product))
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Search term (name, internal code, bar code)"
// @Param        type query string false "Product type" Enums(SIMPLE, CONTAINER, WITH_CONTAINER_RETURN)
// @Param        active query bool false "Active flag"
// @Param        low_stock query bool false "Below minimum stock only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]ProductResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := catalog.ProductFilter{Filter: req.ToFilter()}
	if req.Type != nil {
		productType := catalog.ProductType(*req.Type)
		filter.Type = &productType
	}
	filter.Active = req.Active
	filter.LowStock = req.LowStock
	filter.BarCode = req.BarCode
	filter.InternalCode = req.InternalCode

	products, total, err := h.productService.ListProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toProductResponses(products), total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body SaveProductRequest true "Product update request"
// @Success      200 {object} dto.Response{data=ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toAppRequest()
	if err != nil {
		h.BadRequest(c, "Invalid container product ID format")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), tenantID, productID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// Delete godoc
// @Summary      Deactivate a product
// @Description  Soft-delete: the product stays referenced by past orders
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.DeactivateProduct(c.Request.Context(), tenantID, productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
