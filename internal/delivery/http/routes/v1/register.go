package v1

import (
	"job-tracker/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Jobs    *handler.JobHandler
	Match   *handler.MatchHandler
	Resume  *handler.ResumeHandler
	Profile *handler.ProfileHandler
	Account *handler.AccountHandler
	Data    *handler.DataHandler
}

// Register mounts the v1 API. Everything except /auth sits behind auth.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	jobs := r.Group("/jobs", auth)
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(jobs)
	}
	if h.Match != nil {
		h.Match.RegisterRoutes(jobs)
	}
	if h.Resume != nil {
		h.Resume.RegisterRoutes(jobs)
	}

	me := r.Group("/me", auth)
	if h.Account != nil {
		h.Account.RegisterRoutes(me)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(me)
	}
	if h.Data != nil {
		h.Data.RegisterRoutes(me)
	}
}
