package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var errQuit = errors.New("quit")

type uUser interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.Session, error)
	ChangePassword(ctx context.Context, session *entity.Session, current, next string) error
	Logout(session *entity.Session) error
}

type uGame interface {
	NewGame(ctx context.Context, session *entity.Session, mode entity.GameMode, userMark entity.Cell) (*entity.GameView, error)
	MakeTurn(ctx context.Context, session *entity.Session, row, col int) (*entity.GameView, error)
	Resume(ctx context.Context, session *entity.Session) (*entity.GameView, error)
	Current(session *entity.Session) (*entity.GameView, error)
	Abandon(ctx context.Context, session *entity.Session) error
	Suspend(session *entity.Session)
	History(ctx context.Context, session *entity.Session, limit int) ([]*entity.HistoryRecord, error)
	Stats(ctx context.Context, session *entity.Session) (entity.Stats, error)
}

type handler func(ctx context.Context, args []string, out *bufio.Writer) error

// Defaults are used by "new" when the mode or the mark is omitted.
type Defaults struct {
	Mode   entity.GameMode
	AIMark entity.Cell
}

// Server is a line based front end. One Server serves one terminal and holds its session.
type Server struct {
	logger   *slog.Logger
	uUser    uUser
	uGame    uGame
	defaults Defaults

	session *entity.Session

	handlers map[string]handler
}

func New(logger *slog.Logger, uUser uUser, uGame uGame, defaults Defaults) *Server {
	server := &Server{
		logger:   logger,
		uUser:    uUser,
		uGame:    uGame,
		defaults: defaults,

		handlers: make(map[string]handler),
	}

	server.handlers["register"] = server.handleRegister
	server.handlers["login"] = server.handleLogin
	server.handlers["logout"] = server.handleLogout
	server.handlers["passwd"] = server.handlePasswd
	server.handlers["new"] = server.handleNewGame
	server.handlers["move"] = server.handleMove
	server.handlers["board"] = server.handleBoard
	server.handlers["resume"] = server.handleResume
	server.handlers["abandon"] = server.handleAbandon
	server.handlers["history"] = server.handleHistory
	server.handlers["stats"] = server.handleStats
	server.handlers["help"] = server.handleHelp
	server.handlers["quit"] = server.handleQuit

	return server
}

// Serve reads commands from in until "quit", EOF or ctx is done.
func (that *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	log := that.logger.With("method", "Serve")

	writer := bufio.NewWriter(out)
	defer writer.Flush()

	writeLine(writer, "tic-tac-toe, type help for the list of commands")

	scanner := bufio.NewScanner(in)
	for {
		writePrompt(writer, that.session)
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if !scanner.Scan() {
			break
		}

		if ctx.Err() != nil {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		command := strings.ToLower(fields[0])

		handle, ok := that.handlers[command]
		if !ok {
			writeError(writer, fmt.Errorf("%w: %q, type help", errUnknownCommand, command))
			continue
		}

		err := handle(ctx, fields[1:], writer)
		if errors.Is(err, errQuit) {
			that.logout()
			writeLine(writer, "bye")
			return nil
		}

		if err != nil {
			log.Debug("command failed", "command", command, "error", err)
			writeError(writer, err)
		}
	}

	that.logout()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

// logout ends the current session, keeping any unfinished game in storage.
func (that *Server) logout() {
	if that.session == nil {
		return
	}

	that.uGame.Suspend(that.session)
	if err := that.uUser.Logout(that.session); err != nil {
		that.logger.Error("failed to logout", "error", err)
	}

	that.session = nil
}
