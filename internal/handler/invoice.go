package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi24/internal/contract"
	"taxi24/internal/logger"
)

// InvoiceHandler handles HTTP requests for invoices.
type InvoiceHandler struct {
	dispatch Caller
	log      logger.Logger
}

func NewInvoiceHandler(dispatch Caller, log logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{dispatch: dispatch, log: log}
}

// GetByID handles GET /v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	var req contract.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternGetInvoiceByID, req, http.StatusOK)
}
