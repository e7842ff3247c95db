package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/nikhil00shinde/pokemon-api/pkg/errors"
)

// ErrorInfo holds error details to send to clients.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorBody is the payload written for every failed request.
type ErrorBody struct {
	Error ErrorInfo `json:"error"`
}

// JSON writes a success payload as-is. Endpoint bodies keep the wire shape
// the clients already depend on, so there is no envelope.
func JSON(c *gin.Context, statusCode int, payload interface{}) {
	c.JSON(statusCode, payload)
}

// Error writes a structured error response derived from an AppError.
// Internal errors are never exposed to clients.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = apperrors.ErrInternalServer
	}

	appErr := apperrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorBody{
		Error: ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	})
}
