package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type TableController struct {
	Tables   *services.TableService
	Assigner *services.ServerAssigner
	Users    *services.UserService
}

func NewTableController(tables *services.TableService, assigner *services.ServerAssigner, users *services.UserService) *TableController {
	return &TableController{Tables: tables, Assigner: assigner, Users: users}
}

// AssignServer -> previews which server would take a new table
func (tc *TableController) AssignServer(c *gin.Context) {
	address := strings.TrimSpace(c.Query("restaurant_address"))
	if address == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("restaurant_address is required"))
		return
	}

	assignment, err := tc.Assigner.AssignServer(c.Request.Context(), address)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Server assigned", assignment)
}

// JoinTable -> seats the caller, opening the table if needed
func (tc *TableController) JoinTable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		RestaurantAddress string `json:"restaurant_address" binding:"required"`
		RestaurantName    string `json:"restaurant_name"`
		TableNumber       string `json:"table_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.JoinOrCreate(c.Request.Context(), services.JoinRequest{
		ComboKey:          models.ComboKey(req.RestaurantAddress, req.TableNumber),
		RestaurantAddress: req.RestaurantAddress,
		RestaurantName:    req.RestaurantName,
		UserID:            userID,
		TableNumber:       req.TableNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Joined table", table)
}

// DeleteTable -> drops a table session regardless of who is seated
func (tc *TableController) DeleteTable(c *gin.Context) {
	var req struct {
		AddressTableCombo string `json:"address_table_combo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := tc.Tables.Delete(c.Request.Context(), req.AddressTableCombo); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"address_table_combo": req.AddressTableCombo,
	})
}

// GetAllTables -> every open table
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetServerTables -> tables assigned to the calling server
func (tc *TableController) GetServerTables(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tables, err := tc.Tables.ForServer(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Server tables", tables)
}

// GetTable -> one table by combo key
func (tc *TableController) GetTable(c *gin.Context) {
	combo, ok := comboQuery(c)
	if !ok {
		return
	}
	table, err := tc.Tables.Get(c.Request.Context(), combo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table found", table)
}

// GetUsersAtTable -> who is seated at a combo key
func (tc *TableController) GetUsersAtTable(c *gin.Context) {
	combo, ok := comboQuery(c)
	if !ok {
		return
	}
	users, err := tc.Tables.UsersAtTable(c.Request.Context(), combo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Users at table", users)
}

// GetActiveTable -> the caller's current table
func (tc *TableController) GetActiveTable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	table, err := tc.Tables.ActiveTable(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active table", table)
}

// GetActiveTableID -> -1 when the caller is not seated
func (tc *TableController) GetActiveTableID(c *gin.Context) {
	user, ok := tc.caller(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active table id", gin.H{
		"active_table_id": user.ActiveTableID,
	})
}

// GetCurrentServerID -> -1 when the caller is not seated
func (tc *TableController) GetCurrentServerID(c *gin.Context) {
	user, ok := tc.caller(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current server id", gin.H{
		"current_server_id": user.CurrentServerID,
	})
}

func (tc *TableController) caller(c *gin.Context) (*models.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	user, err := tc.Users.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return user, true
}
