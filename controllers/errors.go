package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/middlewares"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

var errNoUserInContext = errors.New("user id not found in context")

// statusFor maps the service error taxonomy onto HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrAssignmentFailed):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInfrastructure):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		utils.ErrorLogger.WithField("request_id", c.GetString(middlewares.CtxRequestID)).
			Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	if services.IsRetriable(err) {
		utils.RespondRetry(c, code, err)
		return
	}
	utils.RespondError(c, code, err)
}

func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(middlewares.CtxUserID)
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errNoUserInContext)
		return 0, false
	}
	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, errNoUserInContext)
		return 0, false
	}
	return userID, true
}

// comboQuery reads the required address_table_combo query parameter.
func comboQuery(c *gin.Context) (string, bool) {
	combo := c.Query("address_table_combo")
	if combo == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("address_table_combo is required"))
		return "", false
	}
	return combo, true
}
