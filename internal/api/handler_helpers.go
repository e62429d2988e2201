package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/response"
	"github.com/Noxaewr/good-night-app/internal/service"
)

// HandleError maps an error to its HTTP status. AppErrors carry their own
// status and code; anything else is an unanticipated store failure.
func HandleError(c *gin.Context, logger internal.Logger, err error) {
	requestID := c.GetString("request_id")
	appErr := internal.AsAppError(err)
	if appErr == nil {
		logger.Errorf("[request_id=%s] unexpected error: %v", requestID, err)
		appErr = internal.NewInternalError("Internal server error")
	} else {
		logger.Warnf("[request_id=%s] %s: %s", requestID, appErr.Code, appErr.Message)
	}
	c.JSON(appErr.HTTPStatus, response.Error(appErr))
}

func HandleBadRequest(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	c.JSON(400, response.BadRequest(msg+": "+err.Error()))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(status, response.Success(data, meta))
}

// resolveUser loads the path user or writes a 404 and returns nil.
func resolveUser(c *gin.Context, app App, param string) *internal.User {
	user, err := service.GetUser(c.Request.Context(), app.UserRepo(), c.Param(param))
	if err != nil {
		HandleError(c, app.Logger(), err)
		return nil
	}
	return user
}
