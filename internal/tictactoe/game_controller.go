package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var ErrInvalidBoard = errors.New("board is not reachable by legal play")

// Observer is notified once per game, when the outcome leaves InProgress.
type Observer interface {
	GameFinished(outcome entity.Outcome, board entity.Board)
}

type ObserverFunc func(outcome entity.Outcome, board entity.Board)

func (that ObserverFunc) GameFinished(outcome entity.Outcome, board entity.Board) {
	that(outcome, board)
}

// State is a copy of a controller's position, without its observers.
type State struct {
	Board   entity.Board
	Turn    entity.Cell
	Outcome entity.Outcome
}

// GameController owns the board, the side to move and the outcome.
// It is not safe for concurrent use.
type GameController struct {
	board   entity.Board
	turn    entity.Cell
	outcome entity.Outcome

	observers []Observer
}

func NewGameController() *GameController {
	return &GameController{
		turn:    entity.CellX,
		outcome: entity.OutcomeInProgress,
	}
}

// NewGameControllerFromBoard restores a controller from a saved board.
// The side to move follows from the mark counts, X always moving first.
func NewGameControllerFromBoard(board entity.Board) (*GameController, error) {
	xCount, oCount := board.Count(entity.CellX), board.Count(entity.CellO)

	var lastMover entity.Cell
	switch xCount - oCount {
	case 0:
		lastMover = entity.CellO
	case 1:
		lastMover = entity.CellX
	default:
		return nil, fmt.Errorf("%w: %d X and %d O", ErrInvalidBoard, xCount, oCount)
	}

	controller := &GameController{
		board:   board,
		outcome: checkGameStatus(board),
	}

	if winner := controller.outcome.Winner(); winner != entity.CellEmpty && winner != lastMover {
		return nil, fmt.Errorf("%w: %s won but did not move last", ErrInvalidBoard, winner)
	}

	controller.turn = toggleMark(lastMover)
	if controller.outcome.IsFinished() {
		controller.turn = lastMover
	}

	return controller, nil
}

func (that *GameController) Subscribe(observer Observer) {
	that.observers = append(that.observers, observer)
}

// ValidateMove reports why a move at (row, col) would be rejected.
func (that *GameController) ValidateMove(row, col int) error {
	if that.outcome.IsFinished() {
		return apperror.ErrGameFinished
	}

	move := entity.Move{Row: row, Col: col}
	if !move.InBounds() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if that.board.At(move) != entity.CellEmpty {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, move)
	}

	return nil
}

// ApplyMove places the current player's mark. A rejected move changes nothing.
func (that *GameController) ApplyMove(row, col int) bool {
	if err := that.ValidateMove(row, col); err != nil {
		return false
	}

	that.board.Set(entity.Move{Row: row, Col: col}, that.turn)
	that.updateGameStatus()

	return true
}

func (that *GameController) Reset() {
	that.board = entity.Board{}
	that.turn = entity.CellX
	that.outcome = entity.OutcomeInProgress
}

func (that *GameController) State() State {
	return State{Board: that.board, Turn: that.turn, Outcome: that.outcome}
}

// Restore puts back a position taken with State. Observers are kept and not notified.
func (that *GameController) Restore(state State) {
	that.board = state.Board
	that.turn = state.Turn
	that.outcome = state.Outcome
}

func (that *GameController) Outcome() entity.Outcome {
	return that.outcome
}

func (that *GameController) Turn() entity.Cell {
	return that.turn
}

func (that *GameController) Board() entity.Board {
	return that.board
}

func (that *GameController) IsFinished() bool {
	return that.outcome.IsFinished()
}

// updateGameStatus - recomputes the outcome after a move and passes the turn on.
func (that *GameController) updateGameStatus() {
	that.outcome = checkGameStatus(that.board)
	if !that.outcome.IsFinished() {
		that.turn = toggleMark(that.turn)
		return
	}

	for _, observer := range that.observers {
		observer.GameFinished(that.outcome, that.board)
	}
}

func toggleMark(currentMark entity.Cell) entity.Cell {
	if currentMark == entity.CellX {
		return entity.CellO
	}
	return entity.CellX
}

func checkGameStatus(board entity.Board) entity.Outcome {
	if winner := board.Winner(); winner != entity.CellEmpty {
		return entity.WinOutcome(winner)
	}

	// the game continues until all the squares are full
	if !board.IsFull() {
		return entity.OutcomeInProgress
	}

	return entity.OutcomeDraw
}
