package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/service"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/streamtape"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/upload"
)

// failureResponse is the uniform client-facing failure envelope. No stack
// detail or internal paths ever go in Message.
type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeError writes the standardized JSON failure envelope.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(failureResponse{Success: false, Message: message})
}

// mapServiceError translates relay and provider failures into client-facing
// statuses. Timeouts become 504 so clients know a retry may succeed; upstream
// rejections become 502 carrying the provider's message; everything
// unexpected collapses to a plain 500.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, upload.ErrMissingFile):
		return writeError(c, fiber.StatusBadRequest, "videoFile field is required")
	case errors.Is(err, service.ErrLinkIDRequired),
		errors.Is(err, service.ErrTicketRequired),
		errors.Is(err, service.ErrURLRequired):
		return writeError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, streamtape.ErrNegotiationTimeout),
		errors.Is(err, streamtape.ErrUploadTimeout):
		return writeError(c, fiber.StatusGatewayTimeout, "upstream timed out, please try again")
	case errors.Is(err, streamtape.ErrTransferAborted):
		return writeError(c, fiber.StatusBadGateway, "upload transfer aborted")
	case errors.Is(err, streamtape.ErrRemoteUploadNotFound):
		return writeError(c, fiber.StatusNotFound, "remote upload not found")
	}

	var apiErr *streamtape.APIError
	if errors.As(err, &apiErr) {
		status := fiber.StatusBadGateway
		switch apiErr.Status {
		case fiber.StatusNotFound:
			status = fiber.StatusNotFound
		case fiber.StatusGatewayTimeout:
			status = fiber.StatusGatewayTimeout
		}
		return writeError(c, status, apiErr.Message)
	}

	return writeError(c, fiber.StatusInternalServerError, "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for anything handlers did not map themselves.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed")
		default:
			return writeError(c, status, "internal server error")
		}
	}
}
