package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type CheckoutController struct {
	Checkout *services.CheckoutService
	Tables   *services.TableService
	Users    *services.UserService
}

func NewCheckoutController(checkout *services.CheckoutService, tables *services.TableService, users *services.UserService) *CheckoutController {
	return &CheckoutController{Checkout: checkout, Tables: tables, Users: users}
}

// FinishAndPay -> bills the caller for their orders at the current table and frees the seat
func (cc *CheckoutController) FinishAndPay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := cc.Users.Get(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !user.HasActiveTable() {
		respondServiceError(c, services.ErrNoActiveTable)
		return
	}

	table, err := cc.Tables.Get(ctx, user.AddressTableCombo)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := cc.Checkout.FinishAndPay(ctx, services.CheckoutRequest{
		ComboKey:          user.AddressTableCombo,
		CustomerID:        user.ID,
		ServerName:        table.ServerName,
		RestaurantName:    table.RestaurantName,
		RestaurantAddress: table.RestaurantAddress,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout complete, total "+utils.FormatBill(result.Total), result)
}

// GetReceipts -> the caller's receipts
func (cc *CheckoutController) GetReceipts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	receipts, err := cc.Checkout.Receipts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of receipts", receipts)
}
