package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-local/internal/service"
	"github.com/rocketscienceinc/tictactoe-local/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-local/transport/console"
)

const consoleShutdownTimeout = 3 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until the console session ends or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	userRepo := repository.NewUserRepository(sqliteStorage.Connection)
	historyRepo := repository.NewHistoryRepository(sqliteStorage.Connection)
	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(conf.BcryptCost)
	gameService := service.NewGameService(gameRepo, playerRepo)
	botService := service.NewBotService(logger)

	userUseCase := usecase.NewUserUseCase(logger, userService, authService)
	gameManager := usecase.NewGameManager(logger, gameService, botService, historyRepo)

	consoleServer := console.New(logger, userUseCase, gameManager, console.Defaults{
		Mode:   conf.Game.DefaultMode(),
		AIMark: conf.Game.DefaultAIMark(),
	})

	// run console
	consoleErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting console")
		consoleErrCh <- consoleServer.Serve(ctx, in, out)
	}()

	return awaitConsole(ctx, log, consoleErrCh, consoleShutdownTimeout)
}

// awaitConsole returns when the console ends. Once ctx is done it waits up to
// timeout for the command in flight, so storage is not closed under it.
func awaitConsole(ctx context.Context, log *slog.Logger, consoleErrCh <-chan error, timeout time.Duration) error {
	select {
	case err := <-consoleErrCh:
		if err != nil {
			return fmt.Errorf("console error: %w", err)
		}
		log.Info("Console session ended")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-consoleErrCh:
		if err != nil {
			log.Error("console stopped with error", "error", err)
		}
	case <-timer.C:
		// a console blocked on reading input never returns, there is nothing in flight then
		log.Warn("console did not stop in time", "timeout", timeout)
	}

	return nil
}
