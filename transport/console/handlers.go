package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const defaultHistoryLimit = 10

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

func (that *Server) handleRegister(ctx context.Context, args []string, out *bufio.Writer) error {
	if len(args) != 2 {
		return usage("register <username> <password>")
	}

	user, err := that.uUser.Register(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	writeLine(out, fmt.Sprintf("registered %s, you can login now", user.Username))

	return nil
}

func (that *Server) handleLogin(ctx context.Context, args []string, out *bufio.Writer) error {
	if len(args) != 2 {
		return usage("login <username> <password>")
	}

	session, err := that.uUser.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	that.logout()
	that.session = session

	writeLine(out, fmt.Sprintf("welcome, %s", session.Username()))

	// offer the game left unfinished last time
	if view, err := that.uGame.Resume(ctx, session); err == nil {
		writeLine(out, "resuming your unfinished game")
		writeView(out, view)
	} else if !errors.Is(err, apperror.ErrNoActiveGame) {
		that.logger.Error("failed to resume game", "username", session.Username(), "error", err)
	}

	return nil
}

func (that *Server) handleLogout(_ context.Context, _ []string, out *bufio.Writer) error {
	if that.session == nil {
		return apperror.ErrNotLoggedIn
	}

	that.logout()
	writeLine(out, "logged out")

	return nil
}

func (that *Server) handlePasswd(ctx context.Context, args []string, out *bufio.Writer) error {
	if len(args) != 2 {
		return usage("passwd <current> <new>")
	}

	if err := that.uUser.ChangePassword(ctx, that.session, args[0], args[1]); err != nil {
		return err
	}

	writeLine(out, "password changed")

	return nil
}

// handleNewGame accepts the mode and the user's mark in any order, both optional.
func (that *Server) handleNewGame(ctx context.Context, args []string, out *bufio.Writer) error {
	if len(args) > 2 {
		return usage("new [ai|hotseat] [x|o]")
	}

	mode := that.defaults.Mode
	userMark := that.defaults.AIMark.Opponent()

	for _, arg := range args {
		if parsed, err := entity.ParseGameMode(arg); err == nil {
			mode = parsed
			continue
		}

		parsed, err := entity.ParseMark(arg)
		if err != nil {
			return usage("new [ai|hotseat] [x|o]")
		}
		userMark = parsed
	}

	view, err := that.uGame.NewGame(ctx, that.session, mode, userMark)
	if err != nil {
		return err
	}

	writeView(out, view)

	return nil
}

func (that *Server) handleMove(ctx context.Context, args []string, out *bufio.Writer) error {
	if len(args) != 2 {
		return usage("move <row> <col>, rows and columns are 0-2")
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("move <row> <col>, rows and columns are 0-2")
	}

	col, err := strconv.Atoi(args[1])
	if err != nil {
		return usage("move <row> <col>, rows and columns are 0-2")
	}

	view, err := that.uGame.MakeTurn(ctx, that.session, row, col)
	if err != nil {
		return err
	}

	writeView(out, view)

	return nil
}

func (that *Server) handleBoard(_ context.Context, _ []string, out *bufio.Writer) error {
	view, err := that.uGame.Current(that.session)
	if err != nil {
		return err
	}

	writeView(out, view)

	return nil
}

func (that *Server) handleResume(ctx context.Context, _ []string, out *bufio.Writer) error {
	view, err := that.uGame.Resume(ctx, that.session)
	if err != nil {
		return err
	}

	writeView(out, view)

	return nil
}

func (that *Server) handleAbandon(ctx context.Context, _ []string, out *bufio.Writer) error {
	if err := that.uGame.Abandon(ctx, that.session); err != nil {
		return err
	}

	writeLine(out, "game abandoned")

	return nil
}

func (that *Server) handleHistory(ctx context.Context, args []string, out *bufio.Writer) error {
	limit := defaultHistoryLimit

	if len(args) > 1 {
		return usage("history [n]")
	}

	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return usage("history [n]")
		}
		limit = n
	}

	records, err := that.uGame.History(ctx, that.session, limit)
	if err != nil {
		return err
	}

	writeHistory(out, records)

	return nil
}

func (that *Server) handleStats(ctx context.Context, _ []string, out *bufio.Writer) error {
	stats, err := that.uGame.Stats(ctx, that.session)
	if err != nil {
		return err
	}

	writeStats(out, stats)

	return nil
}

func (that *Server) handleHelp(_ context.Context, _ []string, out *bufio.Writer) error {
	writeLine(out, helpText)
	return nil
}

func (that *Server) handleQuit(_ context.Context, _ []string, _ *bufio.Writer) error {
	return errQuit
}
