package handler

import (
	"fmt"

	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	ucuser "job-tracker/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

// DataHandler serves the account-wide export and reset.
type DataHandler struct {
	uc ucuser.DataUsecase
}

func NewDataHandler(uc ucuser.DataUsecase) *DataHandler {
	return &DataHandler{uc: uc}
}

func (h *DataHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/data", h.Export)
	r.Delete("/data", h.Clear)
}

func (h *DataHandler) Export(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	out, err := h.uc.ExportData(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	name := fmt.Sprintf("job-tracker-data-%s.json", out.ExportDate.Format("2006-01-02"))
	return response.DownloadJSON(c, name, out)
}

func (h *DataHandler) Clear(c fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthorized()
	}
	if err := h.uc.ClearData(c.Context(), id); err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, "all data cleared", nil)
}
