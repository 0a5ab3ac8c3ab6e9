package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/workflow"
)

type JobsHandler struct {
	engine *workflow.Engine
}

func NewJobsHandler(engine *workflow.Engine) *JobsHandler {
	return &JobsHandler{engine: engine}
}

// Upload accepts a multipart batch of documents plus per-file print options
// and creates a job in PENDING_PAYMENT.
//
// Options arrive as comma-separated lists aligned with the files: a single
// value applies to every file, otherwise the list length must match the file
// count. Example: copies="2,1" colorMode="color,bw" for two files.
func (h *JobsHandler) Upload(c *gin.Context) {
	kioskID := strings.TrimSpace(c.PostForm("kioskId"))
	if kioskID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "kioskId is required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid multipart form", Message: err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "at least one file is required in the 'files' field"})
		return
	}

	copies, err := optionList(c.PostForm("copies"), len(files))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid copies list", Message: err.Error()})
		return
	}
	colorModes, err := optionList(c.PostForm("colorMode"), len(files))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid colorMode list", Message: err.Error()})
		return
	}
	duplexes, err := optionList(c.PostForm("duplex"), len(files))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid duplex list", Message: err.Error()})
		return
	}
	pageRanges, err := optionList(c.PostForm("pageRange"), len(files))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid pageRange list", Message: err.Error()})
		return
	}

	uploads := make([]workflow.FileUpload, 0, len(files))
	for i, fileHeader := range files {
		data, err := readUpload(fileHeader)
		if err != nil {
			log.Printf("Failed to read uploaded file %s: %v", fileHeader.Filename, err)
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read uploaded file",
				Message: fileHeader.Filename,
			})
			return
		}

		opts := models.PrintOptions{
			ColorMode: colorModes[i],
			Duplex:    duplexes[i],
			PageRange: pageRanges[i],
		}
		if copies[i] != "" {
			n, err := strconv.Atoi(copies[i])
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:   "invalid copies value",
					Message: fmt.Sprintf("file %d: %q", i+1, copies[i]),
				})
				return
			}
			opts.Copies = n
		}

		uploads = append(uploads, workflow.FileUpload{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
			Options:     opts,
		})
	}

	result, err := h.engine.CreateJob(c.Request.Context(), kioskID, uploads)
	if err != nil {
		log.Printf("Failed to create job for kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}

	response := models.UploadResponse{
		JobID:      result.Job.ID.String(),
		KioskID:    result.Job.KioskID,
		Status:     result.Job.Status,
		TotalPages: result.Job.TotalPages,
		Warnings:   result.Warnings,
	}
	for _, f := range result.Job.Files {
		response.Files = append(response.Files, models.UploadedFile{
			OriginalName: f.OriginalName,
			PageCount:    f.PageCount,
			PrintOptions: models.PrintOptions{
				Copies:    f.Copies,
				ColorMode: f.ColorMode,
				Duplex:    f.Duplex,
				PageRange: f.PageRange,
			},
		})
	}

	c.JSON(http.StatusOK, response)
}

// ConfirmPayment verifies the gateway callback for a job and returns the OTP.
// Calling it again for an already paid job returns the same live OTP.
func (h *JobsHandler) ConfirmPayment(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
		return
	}

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	result, err := h.engine.ConfirmPayment(c.Request.Context(), jobID, workflow.ConfirmPaymentInput{
		OrderID:       req.RazorpayOrderID,
		PaymentID:     req.RazorpayPaymentID,
		Signature:     req.RazorpaySignature,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		Metadata:      req.Metadata,
	})
	if err != nil {
		log.Printf("Payment confirmation failed for job %s: %v", jobID, err)
		respondError(c, err)
		return
	}

	response := models.ConfirmPaymentResponse{
		JobID:   jobID.String(),
		Status:  models.JobStatusPaid,
		OTP:     result.OTP,
		Message: "payment confirmed",
		Warning: result.LedgerWarning,
	}
	if result.AlreadyPaid {
		response.Message = "payment already confirmed"
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus records the print outcome the kiosk reports once it has the
// files: PRINTING, COMPLETED or FAILED.
func (h *JobsHandler) UpdateStatus(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
		return
	}

	var req models.UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if err := h.engine.UpdateJobStatus(c.Request.Context(), jobID, req.Status); err != nil {
		log.Printf("Failed to update status for job %s: %v", jobID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobId": jobID.String(), "status": req.Status})
}

// optionList expands a comma-separated per-file option into one value per
// file. Empty input yields empty values, a single value fans out to every
// file, and any other length must match the file count exactly.
func optionList(raw string, fileCount int) ([]string, error) {
	values := make([]string, fileCount)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return values, nil
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		for i := range values {
			values[i] = parts[0]
		}
	case fileCount:
		copy(values, parts)
	default:
		return nil, fmt.Errorf("expected 1 or %d values, got %d", fileCount, len(parts))
	}
	return values, nil
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
