package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Retriable bool        `json:"retriable,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondRetry tells the client the store is down and the call may be repeated.
func RespondRetry(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:    false,
		Message:   err.Error(),
		Retriable: true,
	})
}
