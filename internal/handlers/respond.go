package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/store"
	"print-kiosk-backend/internal/workflow"
)

// respondError translates workflow and store sentinels into HTTP responses.
// Anything unrecognized is a 500 with a generic body; the detail stays in the
// server log, not in the response.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation failed", Message: err.Error()})
	case errors.Is(err, workflow.ErrSignatureInvalid):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "payment verification failed", Message: "signature mismatch"})
	case errors.Is(err, workflow.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "OTP expired"})
	case errors.Is(err, store.ErrOTPAlreadyUsed):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "OTP already used"})
	case errors.Is(err, store.ErrOTPNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "invalid OTP"})
	case errors.Is(err, store.ErrJobNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "job not found"})
	case errors.Is(err, store.ErrKioskNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "kiosk not found"})
	case errors.Is(err, store.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "transaction not found"})
	case errors.Is(err, workflow.ErrStorageFailure):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "file storage failed", Message: "could not store uploaded files, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}
