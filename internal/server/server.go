package server

import (
	"backend-trackaudit/internal/audit"
	"backend-trackaudit/internal/auth"
	"backend-trackaudit/internal/config"
	"backend-trackaudit/internal/storage"
	"backend-trackaudit/internal/stream"
	"backend-trackaudit/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Stream  *stream.Hub
	Auditor *audit.Auditor
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) (*Server, error) {
	store, err := storage.Open(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: hub,
		Auditor: audit.NewAuditor(
			store,
			validator.New(cfg.Thresholds()),
			cfg.Track(),
			hub,
		),
	}

	registerRoutes(s)
	return s, nil
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"store":  s.Cfg.StoreBackend,
		})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	audit.RegisterRoutes(s.App, s.Auditor, jwtMiddleware)
	if s.DB != nil {
		storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB, s.Cfg.StorePrefix), s.Cfg.MetaSuffix, jwtMiddleware)
	}
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

func (s *Server) Close() {
	_ = s.Stream.Close()
}
