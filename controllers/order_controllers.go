package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type OrderController struct {
	Ledger *services.OrderLedger
	Users  *services.UserService
}

func NewOrderController(ledger *services.OrderLedger, users *services.UserService) *OrderController {
	return &OrderController{Ledger: ledger, Users: users}
}

// CreateOrder -> places an order at the caller's current table
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		OrderName  string   `json:"order_name" binding:"required"`
		OrderPrice *float64 `json:"order_price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := oc.Users.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !user.HasActiveTable() {
		respondServiceError(c, services.ErrNoActiveTable)
		return
	}

	order, err := oc.Ledger.Place(c.Request.Context(), services.PlaceOrder{
		CustomerID:        user.ID,
		CustomerFirstName: user.FirstName,
		ComboKey:          user.AddressTableCombo,
		RestaurantAddress: user.ActiveRestaurant,
		TableNumber:       user.ActiveTableNumber,
		ItemName:          req.OrderName,
		Price:             *req.OrderPrice,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetCustomerOrders -> the caller's order history
func (oc *OrderController) GetCustomerOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orders, err := oc.Ledger.CustomerOrders(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetTableOrders -> active orders of everybody at a table
func (oc *OrderController) GetTableOrders(c *gin.Context) {
	combo, ok := comboQuery(c)
	if !ok {
		return
	}
	orders, err := oc.Ledger.TableOrders(c.Request.Context(), combo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table orders", orders)
}

// AdvanceOrder -> moves an order to the state named in the body
func (oc *OrderController) AdvanceOrder(c *gin.Context) {
	var req struct {
		State string `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	target, err := models.ParseOrderState(req.State)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	oc.advance(c, target)
}

// QueueOrder -> new to queued
func (oc *OrderController) QueueOrder(c *gin.Context) {
	oc.advance(c, models.OrderStateQueued)
}

// DeliverOrder -> queued to delivered, payment becomes pending
func (oc *OrderController) DeliverOrder(c *gin.Context) {
	oc.advance(c, models.OrderStateDelivered)
}

func (oc *OrderController) advance(c *gin.Context, target models.OrderState) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil || orderID == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := oc.Ledger.Advance(c.Request.Context(), uint(orderID), target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
