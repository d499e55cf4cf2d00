package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/retailpos/backend/internal/application/payment"
)

// PaymentGroupHandler handles payment group API endpoints
type PaymentGroupHandler struct {
	BaseHandler
	paymentService *paymentapp.Service
}

// NewPaymentGroupHandler creates a new PaymentGroupHandler
func NewPaymentGroupHandler(paymentService *paymentapp.Service) *PaymentGroupHandler {
	return &PaymentGroupHandler{
		paymentService: paymentService,
	}
}

// PreviewPlan generates an installment plan without persisting anything
func (h *PaymentGroupHandler) PreviewPlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req paymentapp.PreviewPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.paymentService.PreviewPlan(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, preview)
}

// Create creates a payment group with its initial plans
func (h *PaymentGroupHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req paymentapp.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	group, err := h.paymentService.CreateGroup(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID retrieves a payment group by its ID
func (h *PaymentGroupHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	group, err := h.paymentService.GetByID(c.Request.Context(), tenantID, groupID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, group)
}

// List returns payment groups matching the filter
func (h *PaymentGroupHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter paymentapp.GroupListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	groups, total, err := h.paymentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, filter.Page, filter.PageSize)
}

// AddPlan appends a plan to an open group (split tender)
func (h *PaymentGroupHandler) AddPlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	var req paymentapp.AddPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.paymentService.AddPlan(c.Request.Context(), tenantID, groupID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, group)
}

// Confirm locks the group once plans cover the total
func (h *PaymentGroupHandler) Confirm(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	group, err := h.paymentService.Confirm(c.Request.Context(), tenantID, groupID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, group)
}

// Pay settles a single payment within the group
func (h *PaymentGroupHandler) Pay(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	paymentID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	group, err := h.paymentService.Pay(c.Request.Context(), tenantID, groupID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, group)
}

// Cancel cancels a payment group
func (h *PaymentGroupHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	var req paymentapp.CancelGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.paymentService.Cancel(c.Request.Context(), tenantID, groupID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, group)
}
