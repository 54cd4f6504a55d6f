// Package backend is the HTTP gateway in front of the contract node. It is
// API-only; clients authenticate upstream and arrive with a principal
// header.
package backend

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/achivio/achivio-core/achivio"
	"github.com/achivio/achivio-core/backend/handlers"
	"github.com/achivio/achivio-core/backend/middleware"
)

type Server struct {
	app *fiber.App
	cfg achivio.APIConfig
}

func NewServer(a *achivio.App, version, commit string) *Server {
	web := &handlers.WebApp{App: a, Version: version, Commit: commit}

	app := fiber.New(fiber.Config{
		AppName:      "Achivio Gateway",
		ServerHeader: "Achivio",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000,http://localhost:8080",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization," + middleware.PrincipalHeader + ",X-Admin-Token",
	}))
	app.Use(loggingMiddleware())

	setupRoutes(app, web, a.Cfg.API.AdminToken)

	return &Server{app: app, cfg: a.Cfg.API}
}

func setupRoutes(app *fiber.App, web *handlers.WebApp, adminToken string) {
	app.Get("/health", handlers.HealthCheck(web))

	v1 := app.Group("/v1")

	// Public reads.
	v1.Get("/token", handlers.TokenInfo(web))
	v1.Get("/token/balance/:principal", handlers.TokenBalance(web))
	v1.Get("/tasks", handlers.TaskList(web))
	v1.Get("/tasks/:id", handlers.TaskDetail(web))
	v1.Get("/badges/:id", handlers.BadgeDetail(web))
	v1.Get("/store/templates", handlers.StoreTemplates(web))
	v1.Get("/leaderboard", handlers.LeaderboardTop(web))
	v1.Get("/leaderboard/rank/:principal", handlers.LeaderboardRank(web))
	v1.Get("/leaderboard/compare/:a/:b", handlers.LeaderboardCompare(web))
	v1.Get("/users/:principal/profile", handlers.UserTaskProfile(web))
	v1.Get("/users/:principal/daily", handlers.UserDailyStats(web))
	v1.Get("/users/:principal/streak", handlers.UserStreak(web))
	v1.Get("/users/:principal/badges", handlers.UserBadges(web))
	v1.Get("/users/:principal/room", handlers.UserRoom(web))
	v1.Get("/users/:principal/achievements", handlers.UserAchievements(web))

	// Signed actions; the caller is the principal header.
	actions := v1.Group("", middleware.PrincipalRequired())
	actions.Post("/token/transfer", handlers.TokenTransfer(web))
	actions.Post("/token/burn", handlers.TokenBurn(web))
	actions.Post("/tasks", handlers.TaskCreate(web))
	actions.Post("/tasks/:id/complete", handlers.TaskComplete(web))
	actions.Delete("/tasks/:id", handlers.TaskDeactivate(web))
	actions.Post("/streaks/claim", handlers.StreakClaim(web))
	actions.Post("/streaks/milestones", handlers.StreakMilestone(web))
	actions.Post("/store/purchase", handlers.StorePurchase(web))
	actions.Post("/store/items/:id/place", handlers.StorePlace(web))
	actions.Post("/store/items/:id/remove", handlers.StoreRemove(web))
	actions.Post("/store/room", handlers.StoreRoomTheme(web))
	actions.Post("/profile", handlers.SetProfile(web))

	// Privileged aggregator/admin surface.
	admin := v1.Group("/admin", middleware.AdminRequired(adminToken))
	admin.Post("/mint", handlers.AdminMint(web))
	admin.Post("/minters", handlers.AdminAddMinter(web))
	admin.Delete("/minters/:minter", handlers.AdminRemoveMinter(web))
	admin.Post("/pause", handlers.AdminSetPaused(web))
	admin.Post("/streaks/update", handlers.AdminUpdateStreak(web))
	admin.Post("/stats/recompute/:principal", handlers.AdminRecomputeStats(web))
	admin.Post("/checkpoint", handlers.AdminCheckpoint(web))
}

func loggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		slog.Debug("Request handled",
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("took", time.Since(start)))
		return err
	}
}

// Listen blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Listen() error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8090"
	}
	slog.Info("Starting gateway",
		slog.String("type", "api"),
		slog.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
