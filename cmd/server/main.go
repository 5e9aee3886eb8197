package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/metricchess-backend/internal/config"
	"github.com/benbeisheim/metricchess-backend/internal/controller"
	"github.com/benbeisheim/metricchess-backend/internal/engine"
	"github.com/benbeisheim/metricchess-backend/internal/middleware"
	"github.com/benbeisheim/metricchess-backend/internal/model"
	"github.com/benbeisheim/metricchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(cfg.NewLogger())

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	eng := startEngine(ctx, cfg)
	var gameOptions []model.Option
	if cfg.HomeRankDoubleStep {
		gameOptions = append(gameOptions, model.WithHomeRankDoubleStep())
	}
	opts := service.Options{
		EngineBudget:  cfg.EngineBudget,
		Clock:         cfg.Clock,
		MatchInterval: cfg.MatchInterval,
		GameOptions:   gameOptions,
	}
	if eng != nil {
		opts.Engine = eng
		defer eng.Close()
	}
	gameManager := service.NewGameManager(opts)
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	app := newApp(cfg, gameService)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP listening", "addr", cfg.Addr)
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startEngine launches the UCI engine. The server still runs without one;
// engine requests then fail with 503.
func startEngine(ctx context.Context, cfg config.Config) *engine.UCIEngine {
	if cfg.EnginePath == "" {
		slog.Info("engine disabled")
		return nil
	}
	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	eng, err := engine.NewUCIEngine(startCtx, cfg.EnginePath, engine.WithHomeRankDoubleStep(cfg.HomeRankDoubleStep))
	if err != nil {
		slog.Warn("engine unavailable, continuing without it", "path", cfg.EnginePath, "err", err)
		return nil
	}
	return eng
}

func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "metricchess",
		DisableStartupMessage: true,
		Immutable:             true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins(), ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.Origins(),
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID())
	wsRoutes.Get("/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleMatchmaking, wsConfig))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	return app
}
