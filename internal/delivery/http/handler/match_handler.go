package handler

import (
	"errors"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/matching"
	"job-tracker/internal/pkg/response"
	ucmatch "job-tracker/internal/usecase/match"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc ucmatch.Usecase
}

func NewMatchHandler(uc ucmatch.Usecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:id/match", h.Analyze)
	r.Post("/:id/match/requests", h.Submit)
	r.Get("/:id/match/requests/:request_id", h.GetRequest)
}

// Analyze answers 200 in both cases: with the analysis, or with
// available=false when there is nothing to score against.
func (h *MatchHandler) Analyze(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	a, err := h.uc.Analyze(c.Context(), id, jobID)
	if errors.Is(err, matching.ErrAnalysisUnavailable) {
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchResponse{
			Available: false,
			Message:   dto.MessageAnalysisUnavailable,
		})
	}
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchResponse{Available: true, Analysis: &a})
}

func (h *MatchHandler) Submit(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	req, err := h.uc.SubmitAsync(c.Context(), id, jobID)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, req)
}

func (h *MatchHandler) GetRequest(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	req, err := h.uc.GetRequest(c.Context(), id, jobID, c.Params("request_id"))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, req)
}
