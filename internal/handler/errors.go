package handler

import (
	"errors"
	"net/http"

	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Both surfaces use the same mapping so a conflict or a
// forbidden outcome looks identical regardless of transport.
func respondServiceError(c *gin.Context, err error) {
	var v *service.ValidationError
	if errors.As(err, &v) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":      false,
			"error":        "validation failed",
			"field_errors": v.FieldErrors,
		})
		return
	}

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"success":          false,
			"error":            conflict.Error(),
			"conflicting_with": conflict.WithReservationID,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrPermission):
		utils.ErrorResponse(c, http.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, service.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Resource not found")
	case err.Error() == "room not found" || err.Error() == "user not found":
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case err.Error() == "username already exists" || err.Error() == "cannot delete another admin":
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
