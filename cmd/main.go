package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"market-chat/auth"
	"market-chat/gateway"
	"market-chat/moderation"
	"market-chat/repositories"
	"market-chat/runtime"
	"market-chat/runtime/workers"
	"market-chat/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database cleanup included)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	censorRune, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Storage (BadgerDB + Bluge index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = blugeWriter.Close()
	}()

	// 3. Moderation
	wordList, err := moderation.LoadWords()
	if err != nil {
		return fmt.Errorf("loading censored words failed: %w", err)
	}
	log.Info(fmt.Sprintf("%d censored words loaded [%s]",
		len(wordList.Words), strings.Join(wordList.Languages, ",")))
	moderator, err := moderation.NewModerator(wordList.Words, censorRune)
	if err != nil {
		return fmt.Errorf("building moderator failed: %w", err)
	}

	// 4. Registry, repositories & services
	registry := runtime.NewRegistry()
	messageRepository := repositories.NewMessageRepository(db, log, config.HistoryLimit)
	searchRepository := repositories.NewSearchRepository(blugeWriter, log)
	userRepository := repositories.NewUserRepository(db)
	adRepository := repositories.NewAdRepository(db)
	blockRepository := repositories.NewBlockRepository(db)

	messageService := services.NewMessageService(
		log, userRepository, adRepository, blockRepository,
		messageRepository, searchRepository, registry, &moderator,
		config.SearchLimit,
	)
	presenceService := services.NewPresenceService(log, registry)
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised background workers
	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewHealthWorker(log, config.HealthInterval, func() int {
		return len(registry.OnlineUsers())
	}))
	go sup.Run(ctx)

	// 7. HTTP & websocket server
	app := fiber.New()
	app.Use(fiberlogger.New())

	wsHandler := gateway.NewHandler(log, tokens, presenceService, messageService, gateway.ConnConfig{
		BufferSize:  config.ConnectionBufferSize,
		SinkTimeout: config.SinkTimeout,
		WriteWait:   config.WriteWait,
		PongWait:    config.PongWait,
		PingPeriod:  config.PingPeriod,
		ReadLimit:   config.ReadLimit,
	})
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(wsHandler.Handle))

	gateway.NewRestHandler(log, tokens, messageService, blockRepository).Register(app)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gateway", "address", address, "at", time.Now().UTC())
		if err := app.Listen(address); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	if err := app.Shutdown(); err != nil {
		log.Warn("Error shutting down server", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
