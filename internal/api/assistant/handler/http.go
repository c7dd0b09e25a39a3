package assistantHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	assistantService "github.com/haa1117/AI-Voice-Assistant/internal/api/assistant/service"
	"github.com/haa1117/AI-Voice-Assistant/internal/middleware"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	assistantService assistantService.IAssistantService,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: assistantService,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	assistant := srv.Group("/assistant")

	assistant.Post("/command", h.ProcessCommand)
	assistant.Post("/transcribe", h.TranscribeAudio)
	assistant.Get("/interactions", h.GetInteractionHistory)
	assistant.Get("/audio/:filename", h.ServeAudio)

	srv.Post("/appointments", h.CreateAppointment)
	srv.Get("/appointments", h.GetAppointments)

	srv.Post("/patients/query", h.QueryPatient)
	srv.Get("/patients", h.GetAllPatients)
}
