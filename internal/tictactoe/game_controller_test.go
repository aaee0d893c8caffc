package tictactoe

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	e = entity.CellEmpty
	x = entity.CellX
	o = entity.CellO
)

// playMoves applies a sequence of (row, col) pairs and fails on the first rejection.
func playMoves(t *testing.T, controller *GameController, moves ...[2]int) {
	t.Helper()

	for i, move := range moves {
		require.True(t, controller.ApplyMove(move[0], move[1]), "move %d %v rejected", i, move)
	}
}

func TestNewGameController(t *testing.T) {
	// When: create a new controller
	controller := NewGameController()

	// Then: the board is empty, X moves first and the game is in progress
	assert.Equal(t, entity.Board{}, controller.Board())
	assert.Equal(t, x, controller.Turn())
	assert.Equal(t, entity.OutcomeInProgress, controller.Outcome())
	assert.False(t, controller.IsFinished())
}

func TestGameController_ApplyMove(t *testing.T) {
	t.Run("ApplyMove", func(t *testing.T) {
		// Given: a new game
		controller := NewGameController()

		// When: X plays the top-left corner
		ok := controller.ApplyMove(0, 0)

		// Then: the mark is placed and O is to move
		require.True(t, ok)
		expected := entity.Board{{x, e, e}, {e, e, e}, {e, e, e}}
		assert.Equal(t, expected, controller.Board())
		assert.Equal(t, o, controller.Turn())
		assert.Equal(t, entity.OutcomeInProgress, controller.Outcome())
	})

	t.Run("Rejects occupied cell", func(t *testing.T) {
		// Given: X has played (0,0)
		controller := NewGameController()
		playMoves(t, controller, [2]int{0, 0})
		before := *controller

		// When: O tries the same square
		ok := controller.ApplyMove(0, 0)

		// Then: the move is rejected and nothing changes
		require.False(t, ok)
		assert.ErrorIs(t, controller.ValidateMove(0, 0), apperror.ErrCellOccupied)
		assert.Equal(t, before.Board(), controller.Board())
		assert.Equal(t, before.Turn(), controller.Turn())
		assert.Equal(t, before.Outcome(), controller.Outcome())
	})

	t.Run("Rejects out of range cells", func(t *testing.T) {
		controller := NewGameController()

		for _, move := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {20, 20}} {
			// When: a coordinate outside the board is passed
			ok := controller.ApplyMove(move[0], move[1])

			// Then: it is rejected with ErrInvalidCell and the state is untouched
			assert.False(t, ok, "move %v", move)
			assert.ErrorIs(t, controller.ValidateMove(move[0], move[1]), apperror.ErrInvalidCell)
		}

		assert.Equal(t, entity.Board{}, controller.Board())
		assert.Equal(t, x, controller.Turn())
	})

	t.Run("Move after game finished", func(t *testing.T) {
		// Given: X has completed the top row
		controller := NewGameController()
		playMoves(t, controller, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{0, 2})
		require.Equal(t, entity.OutcomeXWon, controller.Outcome())
		board := controller.Board()

		// When: O tries to move afterwards
		ok := controller.ApplyMove(2, 2)

		// Then: the move is rejected with ErrGameFinished
		require.False(t, ok)
		assert.ErrorIs(t, controller.ValidateMove(2, 2), apperror.ErrGameFinished)
		assert.Equal(t, board, controller.Board())
	})
}

func TestGameController_Outcome(t *testing.T) {
	t.Run("X wins and the turn is frozen", func(t *testing.T) {
		controller := NewGameController()

		// When: X completes the top row
		playMoves(t, controller, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{0, 2})

		// Then: X has won and the turn stays with the last mover
		assert.Equal(t, entity.OutcomeXWon, controller.Outcome())
		assert.True(t, controller.IsFinished())
		assert.Equal(t, x, controller.Turn())
	})

	t.Run("O wins on a diagonal", func(t *testing.T) {
		controller := NewGameController()

		playMoves(t, controller, [2]int{0, 1}, [2]int{0, 0}, [2]int{0, 2}, [2]int{1, 1}, [2]int{1, 0}, [2]int{2, 2})

		assert.Equal(t, entity.OutcomeOWon, controller.Outcome())
		assert.Equal(t, o, controller.Turn())
	})

	t.Run("Full board without a line", func(t *testing.T) {
		controller := NewGameController()

		// When: moves end in X O X / X O O / O X X
		playMoves(t, controller,
			[2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{1, 1}, [2]int{1, 0},
			[2]int{1, 2}, [2]int{2, 1}, [2]int{2, 0}, [2]int{2, 2},
		)

		// Then: the game is a draw
		assert.Equal(t, entity.OutcomeDraw, controller.Outcome())
		assert.True(t, controller.IsFinished())
	})
}

func TestGameController_Reset(t *testing.T) {
	// Given: a finished game
	controller := NewGameController()
	playMoves(t, controller, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{0, 2})

	// When: the game is reset
	controller.Reset()

	// Then: the initial state is restored
	assert.Equal(t, entity.Board{}, controller.Board())
	assert.Equal(t, x, controller.Turn())
	assert.Equal(t, entity.OutcomeInProgress, controller.Outcome())
	assert.True(t, controller.ApplyMove(1, 1))
}

func TestGameController_Subscribe(t *testing.T) {
	// Given: a controller with an observer
	controller := NewGameController()

	var notified []entity.Outcome
	var finalBoard entity.Board
	controller.Subscribe(ObserverFunc(func(outcome entity.Outcome, board entity.Board) {
		notified = append(notified, outcome)
		finalBoard = board
	}))

	// When: O wins and more moves are attempted
	playMoves(t, controller, [2]int{0, 1}, [2]int{0, 0}, [2]int{0, 2}, [2]int{1, 1}, [2]int{1, 0})
	assert.Empty(t, notified)

	playMoves(t, controller, [2]int{2, 2})
	controller.ApplyMove(2, 0)
	controller.Reset()

	// Then: the observer heard about the win exactly once
	require.Equal(t, []entity.Outcome{entity.OutcomeOWon}, notified)
	assert.Equal(t, o, finalBoard[2][2])
}

func TestGameController_Restore(t *testing.T) {
	// Given: a game one move away from an X win, saved before that move
	controller := NewGameController()
	playMoves(t, controller, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1})
	saved := controller.State()

	var notified []entity.Outcome
	controller.Subscribe(ObserverFunc(func(outcome entity.Outcome, _ entity.Board) {
		notified = append(notified, outcome)
	}))

	playMoves(t, controller, [2]int{0, 2})
	require.Equal(t, entity.OutcomeXWon, controller.Outcome())

	// When: the saved position is restored
	controller.Restore(saved)

	// Then: the win is undone without a notification
	assert.Equal(t, entity.Board{{x, x, e}, {o, o, e}, {e, e, e}}, controller.Board())
	assert.Equal(t, x, controller.Turn())
	assert.Equal(t, entity.OutcomeInProgress, controller.Outcome())
	assert.Equal(t, []entity.Outcome{entity.OutcomeXWon}, notified)

	// And: replaying the move notifies the observer again
	playMoves(t, controller, [2]int{0, 2})
	assert.Equal(t, []entity.Outcome{entity.OutcomeXWon, entity.OutcomeXWon}, notified)
}

func TestNewGameControllerFromBoard(t *testing.T) {
	t.Run("O to move", func(t *testing.T) {
		board := entity.Board{{x, e, e}, {e, e, e}, {e, e, e}}

		controller, err := NewGameControllerFromBoard(board)

		require.NoError(t, err)
		assert.Equal(t, o, controller.Turn())
		assert.Equal(t, board, controller.Board())
		assert.Equal(t, entity.OutcomeInProgress, controller.Outcome())
	})

	t.Run("Finished game keeps the winner's turn", func(t *testing.T) {
		board := entity.Board{{x, x, x}, {o, o, e}, {e, e, e}}

		controller, err := NewGameControllerFromBoard(board)

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeXWon, controller.Outcome())
		assert.Equal(t, x, controller.Turn())
		assert.False(t, controller.ApplyMove(2, 2))
	})

	t.Run("Impossible counts", func(t *testing.T) {
		_, err := NewGameControllerFromBoard(entity.Board{{o, e, e}})
		require.ErrorIs(t, err, ErrInvalidBoard)

		_, err = NewGameControllerFromBoard(entity.Board{{x, x, e}})
		require.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("Winner who did not move last", func(t *testing.T) {
		_, err := NewGameControllerFromBoard(entity.Board{{x, x, x}, {o, o, e}, {o, e, e}})
		require.ErrorIs(t, err, ErrInvalidBoard)
	})
}

// TestGameController_RandomPlay drives the controller with random, often
// illegal, input and checks every transition against the rules.
func TestGameController_RandomPlay(t *testing.T) {
	rnd := rand.New(rand.NewSource(7)) //nolint: gosec // deterministic test input

	for game := 0; game < 300; game++ {
		controller := NewGameController()

		for step := 0; step < 40; step++ {
			row, col := rnd.Intn(5)-1, rnd.Intn(5)-1
			board, turn, outcome := controller.Board(), controller.Turn(), controller.Outcome()

			move := entity.Move{Row: row, Col: col}
			legal := !outcome.IsFinished() && move.InBounds() && board.At(move) == e

			ok := controller.ApplyMove(row, col)
			require.Equal(t, legal, ok)

			if !ok {
				assert.Equal(t, board, controller.Board())
				assert.Equal(t, turn, controller.Turn())
				assert.Equal(t, outcome, controller.Outcome())
				continue
			}

			after := controller.Board()
			assert.Equal(t, turn, after.At(move))

			switch {
			case after.Winner() != e:
				assert.Equal(t, entity.WinOutcome(turn), controller.Outcome())
				assert.Equal(t, turn, controller.Turn())
			case after.IsFull():
				assert.Equal(t, entity.OutcomeDraw, controller.Outcome())
				assert.Equal(t, turn, controller.Turn())
			default:
				assert.Equal(t, entity.OutcomeInProgress, controller.Outcome())
				assert.Equal(t, turn.Opponent(), controller.Turn())
			}
		}
	}
}
