package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypePersistence  ErrorType = "PERSISTENCE_ERROR"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount           ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate             ErrorCode = "INVALID_DATE"
	ErrCodeInvalidQuantity         ErrorCode = "INVALID_QUANTITY"
	ErrCodeInvalidStatus           ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeAmountExceedsBalance    ErrorCode = "AMOUNT_EXCEEDS_BALANCE"
	ErrCodeReversalExceedsOriginal ErrorCode = "REVERSAL_EXCEEDS_ORIGINAL"
	ErrCodeAlreadyReversed         ErrorCode = "ALREADY_REVERSED"
	ErrCodeEntryWrittenOff         ErrorCode = "ENTRY_WRITTEN_OFF"
	ErrCodeEmployeeInactive        ErrorCode = "EMPLOYEE_INACTIVE"
	ErrCodeOrderNotReceivable      ErrorCode = "ORDER_NOT_RECEIVABLE"
	ErrCodeOverReceipt             ErrorCode = "OVER_RECEIPT"
	ErrCodeUnknownOrderItem        ErrorCode = "UNKNOWN_ORDER_ITEM"
	ErrCodeInsufficientStock       ErrorCode = "INSUFFICIENT_STOCK"
	ErrCodeDiscountExceedsSubtotal ErrorCode = "DISCOUNT_EXCEEDS_SUBTOTAL"
	ErrCodeDuplicateSKU            ErrorCode = "DUPLICATE_SKU"

	ErrCodeEmployeeNotFound      ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeLoanNotFound          ErrorCode = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound   ErrorCode = "INSTALLMENT_NOT_FOUND"
	ErrCodeDebtNotFound          ErrorCode = "DEBT_NOT_FOUND"
	ErrCodePaymentNotFound       ErrorCode = "PAYMENT_NOT_FOUND"
	ErrCodeSavingsGoalNotFound   ErrorCode = "SAVINGS_GOAL_NOT_FOUND"
	ErrCodeProductNotFound       ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeSupplierOrderNotFound ErrorCode = "SUPPLIER_ORDER_NOT_FOUND"
	ErrCodeSaleNotFound          ErrorCode = "SALE_NOT_FOUND"
	ErrCodeServiceJobNotFound    ErrorCode = "SERVICE_JOB_NOT_FOUND"

	ErrCodeConcurrentUpdate ErrorCode = "CONCURRENT_UPDATE"
	ErrCodeDuplicateRecord  ErrorCode = "DUPLICATE_RECORD"
	ErrCodePersistence      ErrorCode = "PERSISTENCE_FAILED"

	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInsufficientAccess ErrorCode = "INSUFFICIENT_ACCESS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so copies of a sentinel still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy; sentinels are shared and must stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	c := *e
	c.Cause = cause
	return &c
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	c := *e
	c.Details = details
	return &c
}

func (e *AppError) WithMessage(message string) *AppError {
	c := *e
	c.Message = message
	return &c
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewPersistenceError surfaces the store's own message in Details.
func NewPersistenceError(message string, cause error) *AppError {
	appErr := &AppError{
		Type:       ErrorTypePersistence,
		Code:       ErrCodePersistence,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
	if cause != nil {
		appErr.Details = map[string]string{"store_message": cause.Error()}
	}
	return appErr
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidAmount           = NewValidationError("amount must be greater than zero", ErrCodeInvalidAmount)
	ErrAmountExceedsBalance    = NewValidationError("amount exceeds the available balance", ErrCodeAmountExceedsBalance)
	ErrReversalExceedsOriginal = NewValidationError("reversal would exceed the original amount", ErrCodeReversalExceedsOriginal)
	ErrAlreadyReversed         = NewValidationError("transaction has already been reversed", ErrCodeAlreadyReversed)
	ErrEntryWrittenOff         = NewValidationError("entry has been written off", ErrCodeEntryWrittenOff)
	ErrEmployeeInactive        = NewValidationError("employee is inactive", ErrCodeEmployeeInactive)
	ErrOrderNotReceivable      = NewValidationError("supplier order is not open for receipt", ErrCodeOrderNotReceivable)
	ErrInvalidStatusTransition = NewValidationError("invalid status transition", ErrCodeInvalidStatusTransition)
	ErrInsufficientStock       = NewValidationError("insufficient stock", ErrCodeInsufficientStock)
	ErrDiscountExceedsSubtotal = NewValidationError("discount exceeds subtotal", ErrCodeDiscountExceedsSubtotal)

	ErrEmployeeNotFound      = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrLoanNotFound          = NewNotFoundError("Loan not found", ErrCodeLoanNotFound)
	ErrInstallmentNotFound   = NewNotFoundError("Installment not found", ErrCodeInstallmentNotFound)
	ErrDebtNotFound          = NewNotFoundError("Debt entry not found", ErrCodeDebtNotFound)
	ErrPaymentNotFound       = NewNotFoundError("Payment not found", ErrCodePaymentNotFound)
	ErrSavingsGoalNotFound   = NewNotFoundError("Savings goal not found", ErrCodeSavingsGoalNotFound)
	ErrProductNotFound       = NewNotFoundError("Product not found", ErrCodeProductNotFound)
	ErrSupplierOrderNotFound = NewNotFoundError("Supplier order not found", ErrCodeSupplierOrderNotFound)
	ErrSaleNotFound          = NewNotFoundError("Sale not found", ErrCodeSaleNotFound)
	ErrServiceJobNotFound    = NewNotFoundError("Service job not found", ErrCodeServiceJobNotFound)

	ErrConcurrentUpdate = NewConflictError("record was modified by another request, reload and retry", ErrCodeConcurrentUpdate)
	ErrDuplicateRecord  = NewConflictError("record already exists", ErrCodeDuplicateRecord)

	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrInsufficientAccess = NewForbiddenError("insufficient role for this operation", ErrCodeInsufficientAccess)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
