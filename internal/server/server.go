package server

import (
	"context"

	"backend-hoursledger/internal/auth"
	"backend-hoursledger/internal/config"
	"backend-hoursledger/internal/events"
	"backend-hoursledger/internal/proof"
	"backend-hoursledger/internal/record"
	"backend-hoursledger/internal/session"
	"backend-hoursledger/internal/stats"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Hub   *events.Hub
	Log   *zap.Logger
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Hub:   events.NewHub(redisClient),
		Log:   log,
	}

	if err := registerRoutes(s); err != nil {
		return nil, err
	}
	return s, nil
}

func registerRoutes(s *Server) error {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	blobs, err := proof.NewStore(s.Cfg.ProofDir)
	if err != nil {
		return err
	}

	sessions := session.NewStore(s.Redis)
	authSvc := auth.NewService(s.Cfg.JWTSecret, s.DB, sessions, s.Hub, auth.NewResolver(s.Cfg), s.Log)
	authMiddleware := auth.Middleware(authSvc)

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc, authMiddleware)

	recordSvc := record.NewService(s.DB, blobs, s.Hub, s.Log)
	record.RegisterRoutes(s.App.Group("/seminar-hours"), recordSvc, record.KindSeminar, authMiddleware)
	record.RegisterRoutes(s.App.Group("/activity-hours"), recordSvc, record.KindActivity, authMiddleware)

	stats.RegisterRoutes(s.App.Group("/stats"), stats.NewService(s.DB), authMiddleware)

	events.RegisterRoutes(s.App.Group("/events"), s.Hub, func(token string) (string, error) {
		sess, err := authSvc.Validate(context.Background(), token)
		if err != nil {
			return "", err
		}
		return sess.UserID, nil
	})
	return nil
}
