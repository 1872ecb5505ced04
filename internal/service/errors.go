package service

import "errors"

// Validation failures. Each is caught before any state change.
var (
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("cash given is less than the total")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMalformedBackup     = errors.New("backup file is not valid JSON")
	ErrInvalidBackup       = errors.New("invalid backup file format")
)

// Workflow conflicts.
var (
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartFrozen           = errors.New("cart is awaiting payment and cannot be edited")
	ErrInvalidState         = errors.New("operation not allowed in the current checkout state")
	ErrPaymentProcessing    = errors.New("payment is being processed")
	ErrProductUnavailable   = errors.New("product is no longer in the catalog")
	ErrBarcodeNotFound      = errors.New("no product with this barcode")
	ErrConfirmationRequired = errors.New("importing replaces all current data; confirmation required")
	ErrDuplicateID          = errors.New("a transaction with this id already exists")
)
