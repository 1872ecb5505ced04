package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		service.ErrMalformedBackup:      http.StatusBadRequest,
		service.ErrValidation:           http.StatusUnprocessableEntity,
		service.ErrInvalidBackup:        http.StatusUnprocessableEntity,
		service.ErrInsufficientPayment:  http.StatusUnprocessableEntity,
		service.ErrCartNotFound:         http.StatusNotFound,
		service.ErrInsufficientStock:    http.StatusConflict,
		service.ErrProductUnavailable:   http.StatusConflict,
		service.ErrEmptyCart:            http.StatusConflict,
		service.ErrCartFrozen:           http.StatusConflict,
		service.ErrInvalidState:         http.StatusConflict,
		service.ErrPaymentProcessing:    http.StatusConflict,
		service.ErrDuplicateID:          http.StatusConflict,
		service.ErrConfirmationRequired: http.StatusPreconditionRequired,
		errors.New("redis: i/o timeout"): 0,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
}

func TestRespondError_EchoesMissingBarcode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, &service.BarcodeNotFoundError{Barcode: "8991234"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"no product with this barcode: 8991234","barcode":"8991234"}`, w.Body.String())
}

func TestSetDisposition_QuotesFilename(t *testing.T) {
	gin.SetMode(gin.TestMode)
	names := []string{
		`Toko-"Es"-Segar-Backup-2024-03-15.json`,
		`Kedai\Beku-Backup-2024-03-15.json`,
		"Toko-Dingin-Çikini-Backup-2024-03-15.json",
		"Valuasi-Stok-2024-03-15.xlsx",
	}
	for _, name := range names {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		setDisposition(c, "attachment", name)

		disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
		assert.NoError(t, err, name)
		assert.Equal(t, "attachment", disposition)
		assert.Equal(t, name, params["filename"])
	}
}
