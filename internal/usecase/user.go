package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/pkg"
)

type UserUseCase interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.Session, error)
	ChangePassword(ctx context.Context, session *entity.Session, current, next string) error
	Logout(session *entity.Session) error
}

type userService interface {
	SaveUser(ctx context.Context, user *entity.User) error
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

type authService interface {
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
}

type userUseCase struct {
	logger *slog.Logger

	userService userService
	authService authService
}

func NewUserUseCase(logger *slog.Logger, userService userService, authService authService) UserUseCase {
	return &userUseCase{
		logger:      logger,
		userService: userService,
		authService: authService,
	}
}

func (that *userUseCase) Register(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ErrEmptyCredentials
	}

	hash, err := that.authService.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err = that.userService.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	that.logger.Info("user registered", "username", username)

	return user, nil
}

// Login checks the password and starts a session. Unknown users and wrong
// passwords both produce apperror.ErrInvalidCredentials.
func (that *userUseCase) Login(ctx context.Context, username, password string) (*entity.Session, error) {
	log := that.logger.With("method", "Login", "username", username)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ErrEmptyCredentials
	}

	user, err := that.userService.GetUserByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		log.Info("login failed: unknown user")
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if err = that.authService.ComparePassword(user.PasswordHash, password); err != nil {
		log.Info("login failed", "error", err)
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	log.Info("user logged in")

	return entity.NewSession(pkg.GenerateNewSessionID(), user), nil
}

func (that *userUseCase) ChangePassword(ctx context.Context, session *entity.Session, current, next string) error {
	username := session.Username()
	if username == "" {
		return apperror.ErrNotLoggedIn
	}

	if next == "" {
		return apperror.ErrEmptyCredentials
	}

	user, err := that.userService.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	if err = that.authService.ComparePassword(user.PasswordHash, current); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	hash, err := that.authService.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	if err = that.userService.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	session.User.PasswordHash = hash

	that.logger.Info("password changed", "username", username)

	return nil
}

func (that *userUseCase) Logout(session *entity.Session) error {
	if session.Username() == "" {
		return apperror.ErrNotLoggedIn
	}

	that.logger.Info("user logged out", "username", session.Username(), "session", session.ID)

	return nil
}
