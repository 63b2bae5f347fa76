package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"SkillTracker/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, ErrorResponse{Error: messageFor(err, status)})
}

func statusFor(err error) int {
	var (
		inputErr *domain.InputError
		fetchErr *domain.FetchError
		shapeErr *domain.ShapeError
	)
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &shapeErr), errors.Is(err, domain.ErrInvalidRequiredPoints):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, status int) string {
	var (
		inputErr *domain.InputError
		shapeErr *domain.ShapeError
	)
	switch {
	case errors.As(err, &inputErr):
		return inputErr.Msg
	case status == http.StatusBadGateway:
		return "Failed to fetch the profile page"
	case errors.As(err, &shapeErr):
		return shapeErr.Error()
	case errors.Is(err, domain.ErrInvalidRequiredPoints):
		return domain.ErrInvalidRequiredPoints.Error()
	default:
		return "Internal server error"
	}
}
