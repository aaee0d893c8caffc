package console

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const helpText = `commands:
  register <username> <password>   create an account
  login <username> <password>      start a session
  logout                           end the session, an unfinished game is kept
  passwd <current> <new>           change your password
  new [ai|hotseat] [x|o]           start a game, optionally choosing your mark
  move <row> <col>                 place your mark, rows and columns are 0-2
  board                            show the current game
  resume                           continue your unfinished game
  abandon                          give up the current game without a result
  history [n]                      show your last n games
  stats                            show wins, losses and draws
  help                             show this text
  quit                             leave`

func writeLine(out *bufio.Writer, line string) {
	_, _ = out.WriteString(line)
	_ = out.WriteByte('\n')
}

func writeError(out *bufio.Writer, err error) {
	writeLine(out, "error: "+err.Error())
}

func writePrompt(out *bufio.Writer, session *entity.Session) {
	if username := session.Username(); username != "" {
		_, _ = out.WriteString(username + "> ")
		return
	}
	_, _ = out.WriteString("> ")
}

func cellSymbol(cell entity.Cell) string {
	if cell == entity.CellEmpty {
		return "."
	}
	return cell.String()
}

// renderBoard draws the board with row and column numbers.
func renderBoard(board entity.Board) string {
	var sb strings.Builder

	sb.WriteString("  0 1 2\n")
	for row := range entity.BoardSize {
		fmt.Fprintf(&sb, "%d", row)
		for col := range entity.BoardSize {
			sb.WriteString(" " + cellSymbol(board[row][col]))
		}
		if row < entity.BoardSize-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func writeView(out *bufio.Writer, view *entity.GameView) {
	if view.AIMove != nil {
		writeLine(out, fmt.Sprintf("AI plays %s", view.AIMove))
	}

	writeLine(out, renderBoard(view.Board))

	switch view.Outcome {
	case entity.OutcomeInProgress:
		if view.Mode == entity.ModeVsAI {
			writeLine(out, fmt.Sprintf("you are %s, %s to move", view.UserMark, view.Turn))
			return
		}
		writeLine(out, fmt.Sprintf("%s to move", view.Turn))
	case entity.OutcomeDraw:
		writeLine(out, "game over: draw")
	default:
		line := fmt.Sprintf("game over: %s wins", view.Outcome.Winner())
		if view.Mode == entity.ModeVsAI {
			line += fmt.Sprintf(", you %s", resultVerb(view.Result))
		}
		writeLine(out, line)
	}
}

func resultVerb(result entity.Result) string {
	switch result {
	case entity.ResultWin:
		return "won"
	case entity.ResultLoss:
		return "lost"
	default:
		return "drew"
	}
}

func writeHistory(out *bufio.Writer, records []*entity.HistoryRecord) {
	if len(records) == 0 {
		writeLine(out, "no games played yet")
		return
	}

	for _, record := range records {
		writeLine(out, fmt.Sprintf("%s  %-7s %s as %s  %s",
			record.PlayedAt.Local().Format("2006-01-02 15:04"),
			record.Opponent,
			record.Result,
			record.Mark,
			record.Board.Encode(),
		))
	}
}

func writeStats(out *bufio.Writer, stats entity.Stats) {
	writeLine(out, fmt.Sprintf("played %d: %d wins, %d losses, %d draws", stats.Total(), stats.Wins, stats.Losses, stats.Draws))
}
