package httpres

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/retailcore/inventory-service/internal/model"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return failure(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

// Error maps the ledger's error taxonomy onto HTTP statuses: validation
// and business-rule failures are client errors, lock contention asks for
// a retry, anything else is a storage failure.
func Error(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidQuantity):
		return failure(c, fiber.StatusBadRequest, "INVALID_QUANTITY", err.Error())
	case errors.Is(err, model.ErrInsufficientStock):
		return failure(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, model.ErrInsufficientReservedStock):
		return failure(c, fiber.StatusConflict, "INSUFFICIENT_RESERVED_STOCK", err.Error())
	case errors.Is(err, model.ErrReceiptNotFound):
		return failure(c, fiber.StatusNotFound, "RECEIPT_NOT_FOUND", err.Error())
	case errors.Is(err, model.ErrReceiptAlreadyProcessed):
		return failure(c, fiber.StatusConflict, "RECEIPT_ALREADY_PROCESSED", err.Error())
	case errors.Is(err, model.ErrLockNotAcquired):
		return failure(c, fiber.StatusServiceUnavailable, "STOCK_BUSY", "stock is busy, retry the operation")
	default:
		return failure(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal error")
	}
}

func failure(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	})
}
