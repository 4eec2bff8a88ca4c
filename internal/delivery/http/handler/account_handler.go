package handler

import (
	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	ucuser "job-tracker/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type AccountHandler struct {
	uc ucuser.Usecase
}

func NewAccountHandler(uc ucuser.Usecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

func (h *AccountHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.GetMe)
	r.Patch("/", h.UpdateMe)
}

func (h *AccountHandler) GetMe(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	u, err := h.uc.GetMe(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, u)
}

func (h *AccountHandler) UpdateMe(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	var req dto.UpdateMeRequest
	if err := c.Bind().Body(&req); err != nil {
		return bindError(err)
	}
	if req.Name == nil && req.Password == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	u, err := h.uc.UpdateMe(c.Context(), id, ucuser.UpdateMeInput{Name: req.Name, Password: req.Password})
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, u)
}
