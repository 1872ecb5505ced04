package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/apierror"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes. Zero means the error
// is internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMalformedBackup):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidBackup),
		errors.Is(err, service.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrBarcodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrCartFrozen),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrPaymentProcessing),
		errors.Is(err, service.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	}
	return 0
}

// respondError writes the envelope for a known service error, or hands the
// error to the ErrorHandler middleware, which answers 500.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == 0 {
		_ = c.Error(err)
		return
	}
	body := apierror.New(err.Error())
	var missing *service.BarcodeNotFoundError
	if errors.As(err, &missing) {
		body.Barcode = missing.Barcode
	}
	c.JSON(status, body)
}

// setDisposition writes Content-Disposition with the filename quoted, so a
// store name carrying quotes or non-ASCII still yields a valid header.
func setDisposition(c *gin.Context, disposition, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
}
