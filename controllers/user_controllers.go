package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/middlewares"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// Register -> new accounts are always customers
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Register(c.Request.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, roleOf(user))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, roleOf(user))
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": roleOf(user),
	})
}

// Logout -> revokes the presented token until it would expire
func (uc *UserController) Logout(c *gin.Context) {
	tokenID := c.GetString(middlewares.CtxTokenID)
	expiry := c.GetTime(middlewares.CtxTokenExpiry)
	if expiry.IsZero() {
		expiry = time.Now().Add(24 * time.Hour)
	}

	if err := utils.Blacklist.Revoke(c.Request.Context(), tokenID, expiry); err != nil {
		utils.ErrorLogger.Printf("Failed to revoke token: %v", err)
		utils.RespondRetry(c, http.StatusServiceUnavailable, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> the user behind the token
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := uc.Users.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User profile", user)
}

// GetAllUsers -> every account, for servers only
func (uc *UserController) GetAllUsers(c *gin.Context) {
	users, err := uc.Users.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// SetWorking -> server clocks in at a restaurant, or out
func (uc *UserController) SetWorking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		RestaurantAddress string `json:"restaurant_address"`
		Working           *bool  `json:"working" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.SetWorking(c.Request.Context(), userID, req.RestaurantAddress, *req.Working)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Working status updated", user)
}

// CreateDemoServer -> seeds the demo server account
func (uc *UserController) CreateDemoServer(c *gin.Context) {
	user, err := uc.Users.CreateDemoServer(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Demo server created", user)
}

func roleOf(user *models.User) string {
	if user.IsServer {
		return utils.RoleServer
	}
	return utils.RoleCustomer
}
