package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	winScore  = 10
	lossScore = -10
	drawScore = 0
)

// scanOrder is the order candidate moves are tried in, at the root and in
// the tree. Among equally scored root moves the first one here wins.
var scanOrder = [9]entity.Move{
	{Row: 1, Col: 1},
	{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 0}, {Row: 2, Col: 2},
	{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2}, {Row: 2, Col: 1},
}

// SearchStats describes a finished search.
type SearchStats struct {
	Nodes int // positions evaluated, root children included
	Score int // score of the chosen move from the AI's point of view
}

// Evaluate scores a position for side: winScore if side owns a completed
// line, lossScore if the opponent does, drawScore otherwise. The score does
// not depend on how deep in the tree the position is.
func Evaluate(board entity.Board, side entity.Cell) int {
	switch board.Winner() {
	case entity.CellEmpty:
		return drawScore
	case side:
		return winScore
	default:
		return lossScore
	}
}

// CalculateBestMove returns an optimal move for aiMark, which is assumed to
// be the side to move. It returns entity.NoMove when the board is full or
// aiMark is not a player mark. The board is never modified.
func CalculateBestMove(board entity.Board, aiMark entity.Cell) entity.Move {
	move, _ := CalculateBestMoveWithStats(board, aiMark)
	return move
}

func CalculateBestMoveWithStats(board entity.Board, aiMark entity.Cell) (entity.Move, SearchStats) {
	var stats SearchStats

	if !aiMark.IsPlayer() || board.IsFull() {
		return entity.NoMove, stats
	}

	bestScore := math.MinInt
	bestMove := entity.NoMove

	for _, move := range rootCandidates(board, aiMark) {
		scratch := board
		scratch.Set(move, aiMark)

		score := minimax(&scratch, false, math.MinInt, math.MaxInt, aiMark, &stats)
		if score > bestScore {
			bestScore = score
			bestMove = move
		}
	}

	stats.Score = bestScore

	return bestMove, stats
}

// rootCandidates narrows the root to a move that wins on the spot, or else
// to the square that stops the opponent winning on the spot. Either is
// always among the optimal moves, so the result is unchanged.
func rootCandidates(board entity.Board, aiMark entity.Cell) []entity.Move {
	if move, ok := completingMove(board, aiMark); ok {
		return []entity.Move{move}
	}

	if move, ok := completingMove(board, aiMark.Opponent()); ok {
		return []entity.Move{move}
	}

	candidates := make([]entity.Move, 0, len(scanOrder))
	for _, move := range scanOrder {
		if board.At(move) == entity.CellEmpty {
			candidates = append(candidates, move)
		}
	}

	return candidates
}

func completingMove(board entity.Board, mark entity.Cell) (entity.Move, bool) {
	for _, move := range scanOrder {
		if board.At(move) != entity.CellEmpty {
			continue
		}

		scratch := board
		scratch.Set(move, mark)
		if scratch.Winner() == mark {
			return move, true
		}
	}

	return entity.NoMove, false
}

// minimax - alpha-beta search over the remaining game tree. The board is
// restored before returning.
func minimax(board *entity.Board, isMaximizing bool, alpha, beta int, aiMark entity.Cell, stats *SearchStats) int {
	stats.Nodes++

	if score := Evaluate(*board, aiMark); score != drawScore {
		return score
	}

	if board.IsFull() {
		return drawScore
	}

	mover := aiMark
	bestScore := math.MinInt
	if !isMaximizing {
		mover = aiMark.Opponent()
		bestScore = math.MaxInt
	}

	for _, move := range scanOrder {
		if board.At(move) != entity.CellEmpty {
			continue
		}

		board.Set(move, mover)
		score := minimax(board, !isMaximizing, alpha, beta, aiMark, stats)
		board.Set(move, entity.CellEmpty)

		if isMaximizing {
			bestScore = max(bestScore, score)
			alpha = max(alpha, bestScore)
		} else {
			bestScore = min(bestScore, score)
			beta = min(beta, bestScore)
		}

		if beta <= alpha {
			break
		}
	}

	return bestScore
}
