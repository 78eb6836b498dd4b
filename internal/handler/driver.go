package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi24/internal/contract"
	"taxi24/internal/logger"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	dispatch Caller
	log      logger.Logger
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(dispatch Caller, log logger.Logger) *DriverHandler {
	return &DriverHandler{dispatch: dispatch, log: log}
}

// UpdateLocationBody is the HTTP request body for updating driver location.
type UpdateLocationBody struct {
	Coordinates []float64 `json:"coordinates" binding:"required,len=2"`
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	var req contract.ListDriversRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternGetDrivers, req, http.StatusOK)
}

// Nearby handles GET /v1/drivers/nearby
func (h *DriverHandler) Nearby(c *gin.Context) {
	var req contract.NearbyDriversRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternGetDriversNearby, req, http.StatusOK)
}

// GetByID handles GET /v1/drivers/:id
func (h *DriverHandler) GetByID(c *gin.Context) {
	var req contract.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		respondBindError(c, err)
		return
	}
	relay(c, h.dispatch, h.log, contract.PatternGetDriverByID, req, http.StatusOK)
}

// UpdateLocation handles POST /v1/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var body UpdateLocationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	relay(c, h.dispatch, h.log, contract.PatternUpdateDriverLocation, contract.UpdateDriverLocationRequest{
		ID:          c.Param("id"),
		Coordinates: body.Coordinates,
	}, http.StatusOK)
}
