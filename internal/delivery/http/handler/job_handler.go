package handler

import (
	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/pkg/response"
	ucjob "job-tracker/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc ucjob.Usecase
}

func NewJobHandler(uc ucjob.Usecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Post("/import", h.Import)
	r.Get("/:id", h.Get)
	r.Patch("/:id", h.Update)
	r.Patch("/:id/status", h.UpdateStatus)
	r.Delete("/:id", h.Delete)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return bindError(err)
	}

	j, err := h.uc.Create(c.Context(), id, req.Input())
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, j)
}

func (h *JobHandler) ListMine(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobs, err := h.uc.ListMine(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, jobs)
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}
	j, err := h.uc.Get(c.Context(), id, jobID)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return bindError(err)
	}
	if req.Empty() {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	j, err := h.uc.Update(c.Context(), id, jobID, req.Input())
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobHandler) UpdateStatus(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return bindError(err)
	}

	j, err := h.uc.UpdateStatus(c.Context(), id, jobID, job.Status(req.Status), req.Note)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), id, jobID); err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"id": jobID})
}

func (h *JobHandler) Import(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	var req dto.ImportJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return bindError(err)
	}

	j, err := h.uc.Import(c.Context(), id, req.URL)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, j)
}
