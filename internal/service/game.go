package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
)

// GameService stores snapshots of unfinished games so they survive a restart.
type GameService interface {
	SaveGame(ctx context.Context, game *entity.Game) error
	GetActiveGame(ctx context.Context, username string) (*entity.Game, *entity.Player, error)
	DeleteGame(ctx context.Context, game *entity.Game) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	gameRepo   gameRepo
	playerRepo playerRepo
}

func NewGameService(gameRepo gameRepo, playerRepo playerRepo) GameService {
	return &gameService{
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
	}
}

func (that *gameService) SaveGame(ctx context.Context, game *entity.Game) error {
	game.UpdatedAt = time.Now().UTC()

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	for _, player := range game.Players {
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return fmt.Errorf("failed to update player: %w", err)
		}
	}

	return nil
}

// GetActiveGame returns apperror.ErrNoActiveGame when the user has no stored game.
func (that *gameService) GetActiveGame(ctx context.Context, username string) (*entity.Game, *entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, username)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, nil, apperror.ErrNoActiveGame
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player: %w", err)
	}

	if player.GameID == "" {
		return nil, nil, apperror.ErrNoActiveGame
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, nil, apperror.ErrNoActiveGame
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, player, nil
}

// DeleteGame removes the snapshot and frees every seat in it. A snapshot that is already gone is not an error.
func (that *gameService) DeleteGame(ctx context.Context, game *entity.Game) error {
	err := that.gameRepo.DeleteByID(ctx, game.ID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	for _, player := range game.Players {
		if err = that.playerRepo.DeleteByID(ctx, player.ID); err != nil {
			return fmt.Errorf("failed to delete player: %w", err)
		}
	}

	return nil
}
