package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"job-tracker/internal/analysis"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/scraper"
	"job-tracker/internal/worker"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// mapError translates core errors into AppErrors. It is the only place the
// HTTP layer inspects them.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return middleware.NewAppError(fiber.StatusBadRequest, verr.Message, fiber.Map{"field": verr.Field}, err)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, analysis.ErrRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, job.ErrTransitionNotAllowed):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Status transition not allowed", nil, err)
	case errors.Is(err, domain.ErrPersistence):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Could not save changes, please retry", fiber.Map{"retryable": true}, err)
	case errors.Is(err, scraper.ErrInvalidURL):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid posting url", fiber.Map{"field": "url"}, err)
	case errors.Is(err, scraper.ErrHostNotAllowed), errors.Is(err, scraper.ErrNoPosting):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), fiber.Map{"field": "url"}, err)
	case errors.Is(err, worker.ErrQueueFull):
		return middleware.NewAppError(fiber.StatusTooManyRequests, "Analysis queue is full, try again shortly", fiber.Map{"retryable": true}, err)
	case errors.Is(err, worker.ErrPoolClosed):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, fiber.Map{"retryable": true}, err)
	case errors.Is(err, context.DeadlineExceeded):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Request timed out", fiber.Map{"retryable": true}, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func bindError(err error) error {
	if field, msg, ok := middleware.FieldError(err); ok {
		return middleware.NewAppError(fiber.StatusBadRequest, msg, fiber.Map{"field": field}, err)
	}
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
}

func unauthorized() error {
	return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
}

func jobIDParam(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", fiber.Map{"field": "id"}, err)
	}
	return id, nil
}

// readUpload reads the multipart "file" field, refusing more than maxBytes.
func readUpload(c fiber.Ctx, maxBytes int64) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "file is required", fiber.Map{"field": "file"}, err)
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", nil, middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "uploaded file is too large", fiber.Map{"field": "file"}, nil)
	}
	content, err := readAll(fh, maxBytes)
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "could not read file", fiber.Map{"field": "file"}, err)
	}
	return fh.Filename, content, nil
}

func readAll(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	return io.ReadAll(r)
}
