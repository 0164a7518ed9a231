package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
	"todoapi/pkg/auth"
)

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.ErrorResponse{Error: message})
}

func SendValidationError(c *gin.Context, err error) {
	formatted := validation.FormatValidationErrors(err)

	if len(formatted) > 0 {
		SendError(c, http.StatusBadRequest, formatted[0].Message)
		return
	}

	SendError(c, http.StatusBadRequest, err.Error())
}

// SendDomainError maps the error taxonomy to HTTP statuses. Anything
// unrecognized is an internal error.
func SendDomainError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		SendError(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrEmailTaken):
		SendError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrNotFound):
		SendError(c, http.StatusNotFound, "Todo not found")
	case errors.Is(err, auth.ErrMalformedToken):
		SendError(c, http.StatusUnprocessableEntity, "Malformed token")
	case errors.Is(err, auth.ErrInvalidToken):
		SendError(c, http.StatusUnauthorized, "Invalid or expired token")
	default:
		SendError(c, http.StatusInternalServerError, "Internal server error")
	}
}
