package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-core/commands"
	"chat-core/dispatch"
	"chat-core/internal"
	"chat-core/moderation"
	"chat-core/observability"
	"chat-core/repositories"
	"chat-core/runtime"
	"chat-core/services"
	"chat-core/transport"

	"chat-core/auth"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or
// service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes every component, manages the lifecycle, and centralizes
// error reporting, so deferred cleanup executes before the process exits.
func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	prefix, err := internal.CharacterRune("COMMAND_PREFIX", config.CommandPrefix)
	if err != nil {
		return exitConfig, err
	}
	mask, err := internal.CharacterRune("CENSOR_MASK", config.CensorMask)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger)
	messageIndex := repositories.NewMessageIndex(blugeWriter, logger)

	// 3. Core pipeline
	moderator, err := moderation.NewModerator(internal.WordList(config.CensoredWords), mask)
	if err != nil {
		return exitConfig, fmt.Errorf("moderation setup failed: %w", err)
	}

	registry := dispatch.NewRegistry(commands.Builtins(rand.New(rand.NewSource(time.Now().UnixNano())))...)
	dispatcher := dispatch.NewDispatcher(logger, userRepository, registry, prefix, config.MaxContentLength)

	hub := transport.NewHub(logger)
	deliverer := dispatch.NewDeliverer(logger, hub, messageRepository, messageIndex, moderator)

	// 4. Services & HTTP surface
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, tokens)
	chatService := services.NewChatService(logger, dispatcher, deliverer,
		messageRepository, messageIndex, config.RecentLimit, config.SearchLimit)

	server := transport.NewServer(logger, authService, chatService, userRepository, hub)

	// 5. Signals & background workers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supervisor := runtime.NewSupervisor(logger).
		Add(observability.NewHeartbeat(logger, hub, config.HeartbeatInterval))
	go supervisor.Run(ctx)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Routes()}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for stop or error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Graceful shutdown
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}
