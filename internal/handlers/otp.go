package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/workflow"
)

type OTPHandler struct {
	engine *workflow.Engine
}

func NewOTPHandler(engine *workflow.Engine) *OTPHandler {
	return &OTPHandler{engine: engine}
}

// Verify redeems a one-time code at a kiosk and returns signed download URLs
// for the job's files. The code is spent on success; retries get 400.
func (h *OTPHandler) Verify(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	result, err := h.engine.RedeemOTP(c.Request.Context(), req.OTP, req.KioskID)
	if err != nil {
		log.Printf("OTP verification failed for kiosk %s: %v", req.KioskID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyOTPResponse{
		JobID:      result.JobID.String(),
		TotalPages: result.TotalPages,
		Files:      result.Files,
	})
}
