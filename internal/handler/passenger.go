package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi24/internal/contract"
	"taxi24/internal/logger"
)

// PassengerHandler handles HTTP requests for passengers.
type PassengerHandler struct {
	dispatch Caller
	log      logger.Logger
}

func NewPassengerHandler(dispatch Caller, log logger.Logger) *PassengerHandler {
	return &PassengerHandler{dispatch: dispatch, log: log}
}

// GetAll handles GET /v1/passengers
func (h *PassengerHandler) GetAll(c *gin.Context) {
	var req contract.ListPassengersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternGetPassengers, req, http.StatusOK)
}

// GetByID handles GET /v1/passengers/:id
func (h *PassengerHandler) GetByID(c *gin.Context) {
	var req contract.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternGetPassengerByID, req, http.StatusOK)
}
