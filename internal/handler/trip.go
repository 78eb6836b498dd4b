package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi24/internal/contract"
	"taxi24/internal/logger"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	dispatch Caller
	log      logger.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(dispatch Caller, log logger.Logger) *TripHandler {
	return &TripHandler{dispatch: dispatch, log: log}
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	var req contract.ListTripsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternGetTrips, req, http.StatusOK)
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req contract.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternCreateTrip, req, http.StatusCreated)
}

// Complete handles PATCH /v1/trips/:id/complete
func (h *TripHandler) Complete(c *gin.Context) {
	var req contract.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternCompleteTrip, req, http.StatusOK)
}
