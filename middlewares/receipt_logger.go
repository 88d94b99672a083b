package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/utils"
)

// ReceiptLoggerMiddleware records every checkout attempt and its outcome.
func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get(CtxUserID)
		utils.InfoLogger.Printf("Checkout requested by user %v", userID)

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			utils.InfoLogger.Printf("Receipt issued for user %v", userID)
		} else {
			utils.ErrorLogger.Printf("Checkout failed for user %v with status %d", userID, c.Writer.Status())
		}
	}
}
