package handler

import (
	"time"

	partnerapp "github.com/gestor/backend/internal/application/partner"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler handles contact-related API endpoints
type ContactHandler struct {
	BaseHandler
	contactService *partnerapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *partnerapp.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// SaveContactRequest represents a request to create or update a contact
type SaveContactRequest struct {
	Name             string                `json:"name" binding:"required,min=1,max=200"`
	Type             string                `json:"type" binding:"required"`
	Document         string                `json:"document" binding:"omitempty,max=30"`
	Email            string                `json:"email" binding:"omitempty,email"`
	Observation      string                `json:"observation" binding:"omitempty,max=1000"`
	IsDeliveryPerson bool                  `json:"is_delivery_person"`
	Phones           []string              `json:"phones"`
	Addresses        []ContactAddressInput `json:"addresses"`
}

// ContactAddressInput represents an address in a contact request
type ContactAddressInput struct {
	Address      string `json:"address" binding:"required,min=1,max=300"`
	Number       string `json:"number" binding:"omitempty,max=20"`
	Complement   string `json:"complement" binding:"omitempty,max=100"`
	Neighborhood string `json:"neighborhood" binding:"omitempty,max=100"`
	City         string `json:"city" binding:"omitempty,max=100"`
	State        string `json:"state" binding:"omitempty,max=50"`
	ZipCode      string `json:"zip_code" binding:"omitempty,max=20"`
}

// ListContactsRequest represents contact list query parameters
type ListContactsRequest struct {
	dto.ListRequest
	Type             *string `form:"type"`
	Active           *bool   `form:"active"`
	IsDeliveryPerson *bool   `form:"is_delivery_person"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Type             string                   `json:"type"`
	Document         string                   `json:"document,omitempty"`
	Email            string                   `json:"email,omitempty"`
	Observation      string                   `json:"observation,omitempty"`
	IsDeliveryPerson bool                     `json:"is_delivery_person"`
	Active           bool                     `json:"active"`
	Phones           []string                 `json:"phones"`
	Addresses        []ContactAddressResponse `json:"addresses"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Version          int                      `json:"version"`
}

// ContactAddressResponse represents an address in API responses
type ContactAddressResponse struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`
}

func toContactResponse(contact *partner.Contact) ContactResponse {
	phones := make([]string, len(contact.Phones))
	for i, p := range contact.Phones {
		phones[i] = p.Phone
	}
	addresses := make([]ContactAddressResponse, len(contact.Addresses))
	for i, a := range contact.Addresses {
		addresses[i] = ContactAddressResponse{
			ID:           a.ID.String(),
			Address:      a.Address,
			Number:       a.Number,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
			ZipCode:      a.ZipCode,
		}
	}
	return ContactResponse{
		ID:               contact.ID.String(),
		Name:             contact.Name,
		Type:             string(contact.Type),
		Document:         contact.Document,
		Email:            contact.Email,
		Observation:      contact.Observation,
		IsDeliveryPerson: contact.IsDeliveryPerson,
		Active:           contact.Active,
		Phones:           phones,
		Addresses:        addresses,
		CreatedAt:        contact.CreatedAt,
		UpdatedAt:        contact.UpdatedAt,
		Version:          contact.Version,
	}
}

func toContactResponses(contacts []partner.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = toContactResponse(&contacts[i])
	}
	return responses
}

func (r SaveContactRequest) toAppRequest() partnerapp.CreateContactRequest {
	addresses := make([]partner.ContactAddress, len(r.Addresses))
	for i, a := range r.Addresses {
		addresses[i] = partner.ContactAddress{
			Address:      a.Address,
			Number:       a.Number,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
			ZipCode:      a.ZipCode,
		}
	}
	return partnerapp.CreateContactRequest{
		Name:             r.Name,
		Type:             partner.ContactType(r.Type),
		Document:         r.Document,
		Email:            r.Email,
		Observation:      r.Observation,
		IsDeliveryPerson: r.IsDeliveryPerson,
		Phones:           r.Phones,
		Addresses:        addresses,
	}
}

// Create godoc
// @Summary      Create a new contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body SaveContactRequest true "Contact creation request"
// @Success      201 {object} dto.Response{data=ContactResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SaveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), tenantID, req.toAppRequest())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toContactResponse(contact))
}

// GetByID godoc
// @Summary      Get contact by ID
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      200 {object} dto.Response{data=ContactResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	contact, err := h.contactService.GetContact(c.Request.Context(), tenantID, contactID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toContactResponse(contact))
}

// List godoc
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Param        search query string false "Search term (name, document, email)"
// @Param        type query string false "Contact type" Enums(CLIENT, SUPPLIER, EMPLOYEE, CARRIER, CONTACT)
// @Param        active query bool false "Active flag"
// @Param        is_delivery_person query bool false "Delivery people only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]ContactResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := partner.ContactFilter{Filter: req.ToFilter()}
	if req.Type != nil {
		contactType := partner.ContactType(*req.Type)
		filter.Type = &contactType
	}
	filter.Active = req.Active
	filter.IsDeliveryPerson = req.IsDeliveryPerson

	contacts, total, err := h.contactService.ListContacts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toContactResponses(contacts), total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Param        request body SaveContactRequest true "Contact update request"
// @Success      200 {object} dto.Response{data=ContactResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req SaveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), tenantID, contactID, req.toAppRequest())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toContactResponse(contact))
}

// Delete godoc
// @Summary      Deactivate a contact
// @Description  Soft-delete: the contact stays referenced by past orders
// @Tags         contacts
// @Param        id path string true "Contact ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	if err := h.contactService.DeactivateContact(c.Request.Context(), tenantID, contactID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
