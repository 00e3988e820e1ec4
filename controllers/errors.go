package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"association-portal-api/services"
)

// respondServiceError translates the service error taxonomy into HTTP status
// codes. Collaborator failures are logged server-side and returned as a
// generic retryable 500.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		admission  *services.AdmissionDeniedError
		authz      *services.AuthorizationError
		transition *services.InvalidTransitionError
		collab     *services.CollaboratorError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusBadRequest, gin.H{"error": transition.Error()})
	case errors.As(err, &admission):
		c.JSON(http.StatusConflict, gin.H{"error": admission.Error(), "code": admission.Code})
	case errors.As(err, &authz):
		c.JSON(http.StatusForbidden, gin.H{"error": authz.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &collab):
		log.Printf("collaborator failure: %v", collab)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "a backend call failed, please retry"})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
