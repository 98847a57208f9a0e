package server

import (
	"github.com/natikozel/Mapty/internal/auth"
	"github.com/natikozel/Mapty/internal/config"
	"github.com/natikozel/Mapty/internal/stream"
	"github.com/natikozel/Mapty/internal/worklog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	Worklog *worklog.Service
	Stream  *stream.Hub
}

func NewServer(cfg config.Config, svc *worklog.Service, hub *stream.Hub) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		Worklog: svc,
		Stream:  hub,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	limiter := NewRateLimiter(s.Cfg.RateLimitPerMinute, s.Cfg.RateLimitBurst)

	worklog.RegisterRoutes(s.App.Group("/workouts"), s.Worklog, jwtMiddleware, limiter.Handler())
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
