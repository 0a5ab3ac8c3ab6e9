package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/store"
)

// TransactionsHandler serves the read side of the payment ledger. Entries are
// written only by the payment workflow; nothing here mutates them.
type TransactionsHandler struct {
	store *store.Store
}

func NewTransactionsHandler(s *store.Store) *TransactionsHandler {
	return &TransactionsHandler{store: s}
}

func (h *TransactionsHandler) Get(c *gin.Context) {
	tx, err := h.store.GetTransaction(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionToResponse(tx))
}

// ListByKiosk returns one page of a kiosk's ledger, newest first. Optional
// filters: startDate, endDate (RFC 3339 or YYYY-MM-DD) and status.
func (h *TransactionsHandler) ListByKiosk(c *gin.Context) {
	kioskID := c.Param("kiosk_id")

	opts := store.ListTransactionsOptions{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 50),
		Status: c.Query("status"),
	}

	var err error
	if opts.StartDate, err = queryTime(c, "startDate"); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid startDate", Message: err.Error()})
		return
	}
	if opts.EndDate, err = queryTime(c, "endDate"); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid endDate", Message: err.Error()})
		return
	}

	transactions, total, err := h.store.ListTransactionsByKiosk(c.Request.Context(), kioskID, opts)
	if err != nil {
		log.Printf("Failed to list transactions for kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}

	response := models.TransactionListResponse{
		KioskID:      kioskID,
		Transactions: make([]models.TransactionResponse, 0, len(transactions)),
		Pagination:   paginate(total, opts.Page, opts.Limit),
	}
	for i := range transactions {
		response.Transactions = append(response.Transactions, transactionToResponse(&transactions[i]))
	}

	c.JSON(http.StatusOK, response)
}

// Stats aggregates a kiosk's ledger over a time range: all (default), today,
// week, month or year.
func (h *TransactionsHandler) Stats(c *gin.Context) {
	kioskID := c.Param("kiosk_id")
	timeRange := c.DefaultQuery("timeRange", "all")

	since, ok := sinceForRange(timeRange, time.Now())
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid timeRange",
			Message: "must be one of: all, today, week, month, year",
		})
		return
	}

	stats, err := h.store.TransactionStats(c.Request.Context(), kioskID, since)
	if err != nil {
		log.Printf("Failed to aggregate transactions for kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.KioskStatsResponse{
		KioskID:   kioskID,
		TimeRange: timeRange,
		Stats:     *stats,
	})
}

// Recent returns the latest entries for a kiosk, for the dashboard's activity
// feed. Defaults to 10.
func (h *TransactionsHandler) Recent(c *gin.Context) {
	kioskID := c.Param("kiosk_id")
	limit := queryInt(c, "limit", 10)

	transactions, _, err := h.store.ListTransactionsByKiosk(c.Request.Context(), kioskID,
		store.ListTransactionsOptions{Page: 1, Limit: limit})
	if err != nil {
		log.Printf("Failed to load recent transactions for kiosk %s: %v", kioskID, err)
		respondError(c, err)
		return
	}

	response := make([]models.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		response = append(response, transactionToResponse(&transactions[i]))
	}

	c.JSON(http.StatusOK, gin.H{"kioskId": kioskID, "transactions": response})
}

func sinceForRange(timeRange string, now time.Time) (*time.Time, bool) {
	var since time.Time
	switch timeRange {
	case "all":
		return nil, true
	case "today":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	case "year":
		since = now.AddDate(-1, 0, 0)
	default:
		return nil, false
	}
	return &since, true
}

func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func transactionToResponse(t *models.Transaction) models.TransactionResponse {
	return models.TransactionResponse{
		TransactionID: t.TransactionID,
		KioskID:       t.KioskID,
		JobID:         t.JobID.String(),
		Amount:        t.Amount,
		Currency:      t.Currency,
		TotalPages:    t.TotalPages,
		FilesCount:    t.FilesCount,
		PrintDetails:  t.PrintDetails,
		Status:        t.Status,
		PaymentMethod: t.PaymentMethod,
		CreatedAt:     t.CreatedAt,
	}
}
