package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type ServiceRequestController struct {
	Requests *services.ServiceRequestTracker
}

func NewServiceRequestController(requests *services.ServiceRequestTracker) *ServiceRequestController {
	return &ServiceRequestController{Requests: requests}
}

type comboBody struct {
	AddressTableCombo string `json:"address_table_combo" binding:"required"`
}

// RequestService -> customer calls the server; one outstanding call per table
func (rc *ServiceRequestController) RequestService(c *gin.Context) {
	var req comboBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.Requests.Request(c.Request.Context(), req.AddressTableCombo); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Service requested", gin.H{
		"address_table_combo": req.AddressTableCombo,
		"request_made":        true,
	})
}

// ServeRequest -> server answers the call
func (rc *ServiceRequestController) ServeRequest(c *gin.Context) {
	var req comboBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.Requests.Serve(c.Request.Context(), req.AddressTableCombo); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service request served", gin.H{
		"address_table_combo": req.AddressTableCombo,
		"request_made":        false,
	})
}

// HasPendingRequest -> whether the table is waiting for its server
func (rc *ServiceRequestController) HasPendingRequest(c *gin.Context) {
	combo, ok := comboQuery(c)
	if !ok {
		return
	}
	pending, err := rc.Requests.HasPending(c.Request.Context(), combo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Request status", gin.H{
		"address_table_combo": combo,
		"request_made":        pending,
	})
}
