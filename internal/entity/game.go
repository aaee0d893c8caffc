package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cell is the content of a single board square.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellX
	CellO
)

const BoardSize = 3

const (
	ModeVsAI    GameMode = "ai"
	ModeHotSeat GameMode = "hotseat"
)

var (
	ErrInvalidMark  = errors.New("invalid mark")
	ErrInvalidBoard = errors.New("invalid board encoding")
	ErrInvalidMode  = errors.New("invalid game mode")

	// WinLines are the rows, columns and diagonals, in that order.
	WinLines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}

	NoMove = Move{Row: -1, Col: -1}
)

func (that Cell) String() string {
	switch that {
	case CellX:
		return "X"
	case CellO:
		return "O"
	default:
		return ""
	}
}

// IsPlayer reports whether the cell is one of the two player marks.
func (that Cell) IsPlayer() bool {
	return that == CellX || that == CellO
}

func (that Cell) Opponent() Cell {
	switch that {
	case CellX:
		return CellO
	case CellO:
		return CellX
	default:
		return CellEmpty
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*that = CellEmpty
		return nil
	}

	cell, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*that = cell
	return nil
}

// ParseMark parses "x" or "o" in any case.
func ParseMark(mark string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(mark)) {
	case "X":
		return CellX, nil
	case "O":
		return CellO, nil
	default:
		return CellEmpty, fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}
}

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is a value type, so assigning it takes a snapshot.
type Board [BoardSize][BoardSize]Cell

func (that Board) At(move Move) Cell {
	return that[move.Row][move.Col]
}

func (that *Board) Set(move Move, cell Cell) {
	that[move.Row][move.Col] = cell
}

// Winner returns the owner of the first completed line, or CellEmpty.
func (that Board) Winner() Cell {
	for _, line := range WinLines {
		a, b, c := that.At(line[0]), that.At(line[1]), that.At(line[2])
		if a != CellEmpty && a == b && b == c {
			return a
		}
	}

	return CellEmpty
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == CellEmpty {
				return false
			}
		}
	}

	return true
}

func (that Board) Count(cell Cell) int {
	count := 0
	for _, row := range that {
		for _, c := range row {
			if c == cell {
				count++
			}
		}
	}

	return count
}

// EmptyCells lists free squares in row-major order.
func (that Board) EmptyCells() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == CellEmpty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Encode renders the board row by row as nine characters, "." for empty.
func (that Board) Encode() string {
	var sb strings.Builder
	for _, row := range that {
		for _, cell := range row {
			if cell == CellEmpty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}

func DecodeBoard(encoded string) (Board, error) {
	var board Board

	if len(encoded) != BoardSize*BoardSize {
		return board, fmt.Errorf("%w: length %d", ErrInvalidBoard, len(encoded))
	}

	for i, r := range encoded {
		switch r {
		case '.':
			continue
		case 'X':
			board[i/BoardSize][i%BoardSize] = CellX
		case 'O':
			board[i/BoardSize][i%BoardSize] = CellO
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q", ErrInvalidBoard, r)
		}
	}

	return board, nil
}

type Outcome uint8

const (
	OutcomeInProgress Outcome = iota
	OutcomeXWon
	OutcomeOWon
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomeXWon:
		return "x_won"
	case OutcomeOWon:
		return "o_won"
	case OutcomeDraw:
		return "draw"
	default:
		return "in_progress"
	}
}

func (that Outcome) IsFinished() bool {
	return that != OutcomeInProgress
}

// Winner returns the winning mark, CellEmpty for a draw or an unfinished game.
func (that Outcome) Winner() Cell {
	switch that {
	case OutcomeXWon:
		return CellX
	case OutcomeOWon:
		return CellO
	default:
		return CellEmpty
	}
}

func WinOutcome(mark Cell) Outcome {
	if mark == CellO {
		return OutcomeOWon
	}
	return OutcomeXWon
}

type GameMode string

func ParseGameMode(mode string) (GameMode, error) {
	switch GameMode(strings.ToLower(strings.TrimSpace(mode))) {
	case ModeVsAI:
		return ModeVsAI, nil
	case ModeHotSeat:
		return ModeHotSeat, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// Game is the persisted snapshot of an unfinished game.
type Game struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Mode      GameMode  `json:"mode"`
	AIMark    Cell      `json:"ai_mark,omitempty"`
	Players   []*Player `json:"players,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id string, mode GameMode, aiMark Cell) *Game {
	return &Game{
		ID:        id,
		Mode:      mode,
		AIMark:    aiMark,
		UpdatedAt: time.Now().UTC(),
	}
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModeVsAI
}

// GameView is what the front end renders after every action.
type GameView struct {
	ID       string
	Board    Board
	Turn     Cell
	Outcome  Outcome
	Mode     GameMode
	UserMark Cell
	AIMove   *Move
	Result   Result
}
