package handler

import (
	"context"
	"strconv"

	customerapp "github.com/banking/customer-service/internal/application/customer"
	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/banking/customer-service/internal/domain/shared"
	"github.com/banking/customer-service/internal/interfaces/http/dto"
	"github.com/banking/customer-service/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerService is the application API the customer endpoints call
type CustomerService interface {
	Create(ctx context.Context, c customer.Customer) (customer.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (customer.Customer, error)
	FindByEmail(ctx context.Context, email string) (customer.Customer, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (customer.Customer, error)
	FindAll(ctx context.Context, page, size int) (shared.Paginated[customer.Customer], error)
	Update(ctx context.Context, id uuid.UUID, in customerapp.UpdateCustomerInput) (customer.Customer, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profileType string) (customer.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddAuthorizedSigner(ctx context.Context, id uuid.UUID, signer customer.AuthorizedSigner) (customer.Customer, error)
	RemoveAuthorizedSigner(ctx context.Context, id uuid.UUID, documentNumber string) (customer.Customer, error)
	EvictAll(ctx context.Context)
}

// CustomerHandler handles the customer endpoints
type CustomerHandler struct {
	BaseHandler
	service CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes mounts the customer and cache administration routes
func (h *CustomerHandler) RegisterRoutes(rg gin.IRouter) {
	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/email/:email", h.GetByEmail)
	customers.GET("/document/:documentNumber", h.GetByDocumentNumber)
	customers.GET("/:id", h.GetByID)
	customers.PATCH("/:id", h.Update)
	customers.PATCH("/:id/profile", h.UpdateProfile)
	customers.DELETE("/:id", h.Delete)
	customers.POST("/:id/signers", h.AddSigner)
	customers.DELETE("/:id/signers/:documentNumber", h.RemoveSigner)

	rg.DELETE("/admin/cache/customers", h.EvictCache)
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ToCustomerResponse(created))
}

// List handles GET /customers?page=&size= with a zero-based page
func (h *CustomerHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		h.BadRequest(c, "page must be an integer")
		return
	}
	size, err := queryInt(c, "size", dto.DefaultPageSize)
	if err != nil {
		h.BadRequest(c, "size must be an integer")
		return
	}

	result, err := h.service.FindAll(c.Request.Context(), page, size)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, ToCustomerResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// GetByID handles GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	found, err := h.service.FindByID(c.Request.Context(), id)
	h.respond(c, found, err)
}

// GetByEmail handles GET /customers/email/:email
func (h *CustomerHandler) GetByEmail(c *gin.Context) {
	found, err := h.service.FindByEmail(c.Request.Context(), c.Param("email"))
	h.respond(c, found, err)
}

// GetByDocumentNumber handles GET /customers/document/:documentNumber
func (h *CustomerHandler) GetByDocumentNumber(c *gin.Context) {
	found, err := h.service.FindByDocumentNumber(c.Request.Context(), c.Param("documentNumber"))
	h.respond(c, found, err)
}

// Update handles PATCH /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, customerapp.UpdateCustomerInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	h.respond(c, updated, err)
}

// UpdateProfile handles PATCH /customers/:id/profile.
// Unknown profile names are rejected by the service as ILLEGAL_PROFILE.
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), id, req.ProfileType)
	h.respond(c, updated, err)
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddSigner handles POST /customers/:id/signers
func (h *CustomerHandler) AddSigner(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req AuthorizedSignerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	updated, err := h.service.AddAuthorizedSigner(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ToCustomerResponse(updated))
}

// RemoveSigner handles DELETE /customers/:id/signers/:documentNumber
func (h *CustomerHandler) RemoveSigner(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if _, err := h.service.RemoveAuthorizedSigner(c.Request.Context(), id, c.Param("documentNumber")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// EvictCache handles DELETE /admin/cache/customers
func (h *CustomerHandler) EvictCache(c *gin.Context) {
	h.service.EvictAll(c.Request.Context())
	h.NoContent(c)
}

func (h *CustomerHandler) respond(c *gin.Context, found customer.Customer, err error) {
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToCustomerResponse(found))
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
