package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/store"
)

// KiosksHandler manages the kiosk fleet. All of its routes sit behind the
// admin JWT middleware.
type KiosksHandler struct {
	store *store.Store
}

func NewKiosksHandler(s *store.Store) *KiosksHandler {
	return &KiosksHandler{store: s}
}

// Default per-page pricing in paise for kiosks registered without explicit
// pricing.
const (
	defaultColorPerPage = 500
	defaultBWPerPage    = 200
)

func (h *KiosksHandler) Create(c *gin.Context) {
	var req models.CreateKioskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if req.Username == "" || req.LocationName == "" || req.Address == "" || req.OwnerEmail == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "username, locationName, address and ownerEmail are required",
		})
		return
	}

	pricing := models.KioskPricing{ColorPerPage: defaultColorPerPage, BWPerPage: defaultBWPerPage}
	if req.Pricing != nil {
		if req.Pricing.ColorPerPage <= 0 || req.Pricing.BWPerPage <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "pricing values must be positive"})
			return
		}
		pricing = *req.Pricing
	}

	kiosk := &models.Kiosk{
		KioskID:       "KIOSK_" + strings.ToUpper(uuid.New().String()[:8]),
		Username:      req.Username,
		LocationName:  req.LocationName,
		Address:       req.Address,
		Status:        models.KioskStatusActive,
		OwnerEmail:    req.OwnerEmail,
		OwnerPhone:    nullString(req.OwnerPhone),
		DeviceID:      nullString(req.DeviceID),
		PrinterModel:  nullString(req.PrinterModel),
		PrinterStatus: models.PrinterStatusOffline,
		Pricing:       pricing,
	}

	if err := h.store.CreateKiosk(c.Request.Context(), kiosk); err != nil {
		log.Printf("Failed to create kiosk: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, kioskToResponse(kiosk))
}

func (h *KiosksHandler) List(c *gin.Context) {
	opts := store.ListKiosksOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 50),
	}

	kiosks, total, err := h.store.ListKiosks(c.Request.Context(), opts)
	if err != nil {
		log.Printf("Failed to list kiosks: %v", err)
		respondError(c, err)
		return
	}

	response := models.KioskListResponse{
		Kiosks:     make([]models.KioskResponse, 0, len(kiosks)),
		Pagination: paginate(total, opts.Page, opts.Limit),
	}
	for i := range kiosks {
		response.Kiosks = append(response.Kiosks, kioskToResponse(&kiosks[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *KiosksHandler) Get(c *gin.Context) {
	kiosk, err := h.store.GetKiosk(c.Request.Context(), c.Param("kiosk_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kioskToResponse(kiosk))
}

func (h *KiosksHandler) Update(c *gin.Context) {
	kioskID := c.Param("kiosk_id")

	var req models.UpdateKioskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if req.Status != nil && !validKioskStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status", Message: *req.Status})
		return
	}
	if req.PrinterStatus != nil && !validPrinterStatus(*req.PrinterStatus) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid printer status", Message: *req.PrinterStatus})
		return
	}
	if req.Pricing != nil && (req.Pricing.ColorPerPage <= 0 || req.Pricing.BWPerPage <= 0) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "pricing values must be positive"})
		return
	}

	if err := h.store.UpdateKiosk(c.Request.Context(), kioskID, &req); err != nil {
		log.Printf("Failed to update kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}

	kiosk, err := h.store.GetKiosk(c.Request.Context(), kioskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kioskToResponse(kiosk))
}

// Deactivate marks a kiosk INACTIVE. Records are kept; the ledger still
// references the kiosk id.
func (h *KiosksHandler) Deactivate(c *gin.Context) {
	kioskID := c.Param("kiosk_id")
	if err := h.store.DeactivateKiosk(c.Request.Context(), kioskID); err != nil {
		log.Printf("Failed to deactivate kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kioskId": kioskID, "status": models.KioskStatusInactive})
}

// UpdatePrinterStatus is the heartbeat endpoint kiosk devices call when their
// printer state changes.
func (h *KiosksHandler) UpdatePrinterStatus(c *gin.Context) {
	kioskID := c.Param("kiosk_id")

	var req models.UpdatePrinterStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if !validPrinterStatus(req.PrinterStatus) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid printer status", Message: req.PrinterStatus})
		return
	}

	update := models.UpdateKioskRequest{PrinterStatus: &req.PrinterStatus}
	if err := h.store.UpdateKiosk(c.Request.Context(), kioskID, &update); err != nil {
		log.Printf("Failed to update printer status for kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kioskId": kioskID, "printerStatus": req.PrinterStatus})
}

// RefreshStats recomputes the kiosk's cached revenue rollup from the ledger.
func (h *KiosksHandler) RefreshStats(c *gin.Context) {
	kioskID := c.Param("kiosk_id")
	if err := h.store.RefreshKioskStats(c.Request.Context(), kioskID); err != nil {
		log.Printf("Failed to refresh stats for kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}

	kiosk, err := h.store.GetKiosk(c.Request.Context(), kioskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kioskToResponse(kiosk))
}

func validKioskStatus(status string) bool {
	switch status {
	case models.KioskStatusActive, models.KioskStatusInactive, models.KioskStatusPending:
		return true
	}
	return false
}

func validPrinterStatus(status string) bool {
	switch status {
	case models.PrinterStatusOnline, models.PrinterStatusOffline,
		models.PrinterStatusError, models.PrinterStatusMaintenance:
		return true
	}
	return false
}

func kioskToResponse(k *models.Kiosk) models.KioskResponse {
	return models.KioskResponse{
		KioskID:       k.KioskID,
		Username:      k.Username,
		LocationName:  k.LocationName,
		Address:       k.Address,
		Status:        k.Status,
		OwnerEmail:    k.OwnerEmail,
		OwnerPhone:    k.OwnerPhone.String,
		DeviceID:      k.DeviceID.String,
		PrinterModel:  k.PrinterModel.String,
		PrinterStatus: k.PrinterStatus,
		Pricing:       k.Pricing,
		Stats:         k.Stats,
		CreatedAt:     k.CreatedAt,
		UpdatedAt:     k.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func paginate(total, page, limit int) models.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return models.Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
