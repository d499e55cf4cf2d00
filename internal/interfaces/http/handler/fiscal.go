package handler

import (
	"github.com/gin-gonic/gin"
	fiscalapp "github.com/retailpos/backend/internal/application/fiscal"
)

// FiscalHandler handles fiscal printer API endpoints
type FiscalHandler struct {
	BaseHandler
	statusService *fiscalapp.StatusService
}

// NewFiscalHandler creates a new FiscalHandler
func NewFiscalHandler(statusService *fiscalapp.StatusService) *FiscalHandler {
	return &FiscalHandler{
		statusService: statusService,
	}
}

// PrinterStatus queries the configured fiscal printer and reports
// whether it replied or timed out.
func (h *FiscalHandler) PrinterStatus(c *gin.Context) {
	status, err := h.statusService.QueryStatus(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, status)
}
