package handler

import (
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	ucresume "job-tracker/internal/usecase/resume"

	"github.com/gofiber/fiber/v3"
)

type ResumeHandler struct {
	uc       ucresume.Usecase
	maxBytes int64
}

func NewResumeHandler(uc ucresume.Usecase, maxBytes int64) *ResumeHandler {
	return &ResumeHandler{uc: uc, maxBytes: maxBytes}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:id/resume", h.Get)
	r.Post("/:id/resume", h.Upload)
	r.Put("/:id/resume", h.Upload)
	r.Delete("/:id/resume", h.Delete)
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}
	res, err := h.uc.Get(c.Context(), id, jobID)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}
	name, content, err := readUpload(c, h.maxBytes)
	if err != nil {
		return err
	}

	out, err := h.uc.Upload(c.Context(), id, jobID, name, content)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, out)
}

func (h *ResumeHandler) Delete(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}
	if err := h.uc.Remove(c.Context(), id, jobID); err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
