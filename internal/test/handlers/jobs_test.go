package handlers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"print-kiosk-backend/internal/handlers"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/test/fakes"
	"print-kiosk-backend/internal/workflow"
)

const gatewaySecret = "handler-test-secret"

func newKioskRouter(pages map[string]int) (*gin.Engine, *fakes.Ledger) {
	gin.SetMode(gin.TestMode)

	jobs := fakes.NewJobStore()
	otps := fakes.NewOTPStore()
	ledger := fakes.NewLedger()
	engine := workflow.NewEngine(jobs, otps, ledger,
		fakes.NewStash(),
		&fakes.PageCounter{Pages: pages},
		&fakes.CodeGenerator{Codes: []string{"482913"}},
		&fakes.Notifier{},
		workflow.EngineConfig{GatewaySecret: gatewaySecret})

	jobsHandler := handlers.NewJobsHandler(engine)
	otpHandler := handlers.NewOTPHandler(engine)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/uploads", jobsHandler.Upload)
	api.POST("/uploads/:job_id/confirm-payment", jobsHandler.ConfirmPayment)
	api.POST("/otp/verify", otpHandler.Verify)
	return router, ledger
}

func multipartUpload(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(gatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestUploadCreatesJob(t *testing.T) {
	router, _ := newKioskRouter(map[string]int{"contract": 5})

	body, contentType := multipartUpload(t,
		map[string]string{"kioskId": "KIOSK_A", "copies": "2"},
		map[string][]byte{"contract.pdf": []byte("contract")})

	req, _ := http.NewRequest("POST", "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, "KIOSK_A", resp.KioskID)
	assert.Equal(t, models.JobStatusPendingPayment, resp.Status)
	assert.Equal(t, 10, resp.TotalPages)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, 2, resp.Files[0].PrintOptions.Copies)
}

func TestUploadRequiresKioskID(t *testing.T) {
	router, _ := newKioskRouter(nil)

	body, contentType := multipartUpload(t, nil, map[string][]byte{"a.pdf": []byte("x")})
	req, _ := http.NewRequest("POST", "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadOptionListLengthMismatch(t *testing.T) {
	router, _ := newKioskRouter(map[string]int{"x": 1})

	body, contentType := multipartUpload(t,
		map[string]string{"kioskId": "KIOSK_A", "copies": "1,2,3"},
		map[string][]byte{"a.pdf": []byte("x"), "b.pdf": []byte("x")})

	req, _ := http.NewRequest("POST", "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "copies")
}

func TestUploadConfirmRedeemFlow(t *testing.T) {
	router, ledger := newKioskRouter(map[string]int{"doc": 3})

	// Upload
	body, contentType := multipartUpload(t,
		map[string]string{"kioskId": "KIOSK_A"},
		map[string][]byte{"doc.pdf": []byte("doc")})
	req, _ := http.NewRequest("POST", "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))

	// Confirm payment
	confirmBody, _ := json.Marshal(models.ConfirmPaymentRequest{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: signPayment("order_1", "pay_1"),
		Amount:            1500,
	})
	req, _ = http.NewRequest("POST", "/api/v1/uploads/"+uploaded.JobID+"/confirm-payment", bytes.NewReader(confirmBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var confirmed models.ConfirmPaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirmed))
	assert.Equal(t, "482913", confirmed.OTP)
	assert.Equal(t, models.JobStatusPaid, confirmed.Status)
	assert.Len(t, ledger.EntriesWithStatus(models.TransactionStatusSuccess), 1)

	// Redeem OTP
	verifyBody, _ := json.Marshal(models.VerifyOTPRequest{OTP: confirmed.OTP, KioskID: "KIOSK_A"})
	req, _ = http.NewRequest("POST", "/api/v1/otp/verify", bytes.NewReader(verifyBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var redeemed models.VerifyOTPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &redeemed))
	assert.Equal(t, uploaded.JobID, redeemed.JobID)
	assert.Equal(t, 3, redeemed.TotalPages)
	require.Len(t, redeemed.Files, 1)
	assert.NotEmpty(t, redeemed.Files[0].URL)

	// The code is spent
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/otp/verify", bytes.NewReader(verifyBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already used")
}

func TestConfirmPaymentRejectsBadSignature(t *testing.T) {
	router, ledger := newKioskRouter(map[string]int{"doc": 1})

	body, contentType := multipartUpload(t,
		map[string]string{"kioskId": "KIOSK_A"},
		map[string][]byte{"doc.pdf": []byte("doc")})
	req, _ := http.NewRequest("POST", "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))

	confirmBody, _ := json.Marshal(models.ConfirmPaymentRequest{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "forged",
		Amount:            500,
	})
	req, _ = http.NewRequest("POST", "/api/v1/uploads/"+uploaded.JobID+"/confirm-payment", bytes.NewReader(confirmBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, ledger.EntriesWithStatus(models.TransactionStatusSuccess))
}

func TestConfirmPaymentInvalidJobID(t *testing.T) {
	router, _ := newKioskRouter(nil)

	confirmBody, _ := json.Marshal(models.ConfirmPaymentRequest{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: signPayment("order_1", "pay_1"),
		Amount:            500,
	})
	req, _ := http.NewRequest("POST", "/api/v1/uploads/not-a-uuid/confirm-payment", bytes.NewReader(confirmBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyOTPUnknownCode(t *testing.T) {
	router, _ := newKioskRouter(nil)

	verifyBody, _ := json.Marshal(models.VerifyOTPRequest{OTP: "000000", KioskID: "KIOSK_A"})
	req, _ := http.NewRequest("POST", "/api/v1/otp/verify", bytes.NewReader(verifyBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
