package entity

import "time"

type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// ResultFor classifies a finished outcome from the point of view of mark.
// It returns an empty Result while the game is still in progress.
func ResultFor(outcome Outcome, mark Cell) Result {
	switch {
	case outcome == OutcomeDraw:
		return ResultDraw
	case !outcome.IsFinished():
		return ""
	case outcome.Winner() == mark:
		return ResultWin
	default:
		return ResultLoss
	}
}

type HistoryRecord struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Opponent GameMode  `json:"opponent"`
	Mark     Cell      `json:"mark"`
	Result   Result    `json:"result"`
	Board    Board     `json:"board"`
	PlayedAt time.Time `json:"played_at"`
}

type Stats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

func (that Stats) Total() int {
	return that.Wins + that.Losses + that.Draws
}
