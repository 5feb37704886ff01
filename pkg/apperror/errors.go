package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // internal cause, never sent to clients
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the AppError code found in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Validation (VAL) ----

// Validation returns a generic VAL_001 error carrying message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidQuantity() *AppError {
	return New("VAL_002", "Quantity must be an integer between 1 and 1000", http.StatusBadRequest)
}

// ---- Wallet Ledger (WAL) ----

func ErrInvalidAmount() *AppError {
	return New("WAL_001", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrWalletNotFound() *AppError {
	return New("WAL_002", "Wallet not found", http.StatusNotFound)
}

func ErrSenderWalletNotFound() *AppError {
	return New("WAL_003", "Sender wallet not found", http.StatusNotFound)
}

func ErrInsufficientFunds() *AppError {
	return New("WAL_004", "Insufficient funds", http.StatusBadRequest)
}

func ErrTransactionNotFound() *AppError {
	return New("WAL_005", "Transaction not found", http.StatusNotFound)
}

// ---- Orders (ORD) ----

func ErrArtworkNotFound() *AppError {
	return New("ORD_001", "Artwork not found", http.StatusNotFound)
}

func ErrOrderAlreadyExists() *AppError {
	return New("ORD_002", "You already have an active order for this artwork", http.StatusConflict)
}

func ErrOrderNotFound() *AppError {
	return New("ORD_003", "Order not found", http.StatusNotFound)
}

// ErrInvalidState reports a transition the order's current status does not allow.
func ErrInvalidState(message string) *AppError {
	return New("ORD_004", message, http.StatusBadRequest)
}

func ErrUnauthorizedAction(message string) *AppError {
	return New("ORD_005", message, http.StatusForbidden)
}

// ---- Checkout (CHK) ----

func ErrCartNotFound() *AppError {
	return New("CHK_001", "Cart not found", http.StatusBadRequest)
}

func ErrCartEmpty() *AppError {
	return New("CHK_002", "Cart is empty", http.StatusBadRequest)
}

// ---- Payment Gateway (PAY) ----

func ErrGatewayInit(err error) *AppError {
	return Wrap("PAY_001", "Failed to initialize payment", http.StatusInternalServerError, err)
}

func ErrGatewayVerify(err error) *AppError {
	return Wrap("PAY_002", "Failed to verify payment", http.StatusBadRequest, err)
}

func ErrPaymentNotSuccessful() *AppError {
	return New("PAY_003", "Payment was not successful", http.StatusBadRequest)
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidCredentials() *AppError {
	return New("SEC_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("SEC_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbiddenRole() *AppError {
	return New("SEC_003", "You do not have permission to perform this action", http.StatusForbidden)
}

func ErrInvalidWebhookSignature() *AppError {
	return New("SEC_004", "Invalid webhook signature", http.StatusUnauthorized)
}

func ErrRateLimitExceeded() *AppError {
	return New("SEC_005", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Users (USR) ----

func ErrUserExists() *AppError {
	return New("USR_001", "User already exists", http.StatusConflict)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrBodyTooLarge() *AppError {
	return New("SYS_002", "Request body too large", http.StatusRequestEntityTooLarge)
}
