package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/haa1117/AI-Voice-Assistant/database/postgres"
	assistantHandler "github.com/haa1117/AI-Voice-Assistant/internal/api/assistant/handler"
	assistantRepository "github.com/haa1117/AI-Voice-Assistant/internal/api/assistant/repository"
	assistantService "github.com/haa1117/AI-Voice-Assistant/internal/api/assistant/service"
	"github.com/haa1117/AI-Voice-Assistant/internal/middleware"
	"github.com/haa1117/AI-Voice-Assistant/pkg/audio"
	cachePkg "github.com/haa1117/AI-Voice-Assistant/pkg/cache"
	"github.com/haa1117/AI-Voice-Assistant/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	cache       cachePkg.ICache
	transcriber audio.ITranscriber
	synthesizer audio.ISynthesizer
	handlers    []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithCache(cache cachePkg.ICache) ServerOption {
	return func(s *Server) error {
		s.cache = cache
		return nil
	}
}

func WithTranscriber() ServerOption {
	return func(s *Server) error {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for transcription")
		}
		s.transcriber = audio.NewTranscriptionService(apiKey)
		return nil
	}
}

func WithSynthesizer() ServerOption {
	return func(s *Server) error {
		apiKey := os.Getenv("ELEVENLABS_API_KEY")
		voiceID := os.Getenv("ELEVENLABS_VOICE_ID")
		if apiKey == "" {
			if s.log != nil {
				s.log.Warn("ELEVENLABS_API_KEY not set, speech synthesis disabled")
			}
			return nil
		}
		s.synthesizer = audio.NewTTSService(apiKey, voiceID)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Assistant Domain
	assistantRepo := assistantRepository.New(s.db, s.log)
	assistantServices := assistantService.NewAssistantService(s.log, assistantRepo, s.cache, s.transcriber, s.synthesizer, s.utils)
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, assistantHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
