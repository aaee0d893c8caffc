package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrNotBotTurn       = errors.New("it's not the bot's turn")
)

type BotService interface {
	MakeTurn(controller *tictactoe.GameController, aiMark entity.Cell) (entity.Move, error)
}

type botService struct {
	logger *slog.Logger
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger,
	}
}

// MakeTurn searches for the best move for aiMark and applies it to the controller.
func (that *botService) MakeTurn(controller *tictactoe.GameController, aiMark entity.Cell) (entity.Move, error) {
	log := that.logger.With("method", "MakeTurn", "mark", aiMark.String())

	board := controller.Board()
	if board.IsFull() {
		return entity.NoMove, ErrNoAvailableMoves
	}

	if controller.IsFinished() {
		return entity.NoMove, apperror.ErrGameFinished
	}

	if controller.Turn() != aiMark {
		return entity.NoMove, ErrNotBotTurn
	}

	move, stats := tictactoe.CalculateBestMoveWithStats(board, aiMark)
	log.Debug("search finished", "move", move.String(), "score", stats.Score, "nodes", stats.Nodes)

	if err := controller.ValidateMove(move.Row, move.Col); err != nil {
		return entity.NoMove, fmt.Errorf("bot failed to make turn: %w", err)
	}

	controller.ApplyMove(move.Row, move.Col)

	return move, nil
}
