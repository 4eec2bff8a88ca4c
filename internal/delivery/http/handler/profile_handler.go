package handler

import (
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/pkg/response"
	ucprofile "job-tracker/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc       ucprofile.Usecase
	maxBytes int64
}

func NewProfileHandler(uc ucprofile.Usecase, maxBytes int64) *ProfileHandler {
	return &ProfileHandler{uc: uc, maxBytes: maxBytes}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.Get)
	r.Put("/profile", h.Update)
	r.Delete("/profile", h.Clear)
	r.Post("/profile/resume", h.ImportResume)
	r.Get("/profile/export", h.Export)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	p, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) Update(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	var req profile.CandidateProfile
	if err := c.Bind().Body(&req); err != nil {
		return bindError(err)
	}
	p, err := h.uc.Update(c.Context(), id, req)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) Clear(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	p, err := h.uc.Clear(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) ImportResume(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	name, content, err := readUpload(c, h.maxBytes)
	if err != nil {
		return err
	}
	p, err := h.uc.ImportResume(c.Context(), id, name, content)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

// Export sends the profile as a plain-text resume download.
func (h *ProfileHandler) Export(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	text, err := h.uc.Export(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Download(c, "resume.txt", text)
}
