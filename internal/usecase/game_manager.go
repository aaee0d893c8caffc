package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

type gameService interface {
	SaveGame(ctx context.Context, game *entity.Game) error
	GetActiveGame(ctx context.Context, username string) (*entity.Game, *entity.Player, error)
	DeleteGame(ctx context.Context, game *entity.Game) error
}

type botService interface {
	MakeTurn(controller *tictactoe.GameController, aiMark entity.Cell) (entity.Move, error)
}

type historyRepo interface {
	Save(ctx context.Context, record *entity.HistoryRecord) error
	ListByUsername(ctx context.Context, username string, limit int) ([]*entity.HistoryRecord, error)
	Stats(ctx context.Context, username string) (entity.Stats, error)
}

// activeGame is a game a logged-in user is playing right now.
type activeGame struct {
	game       *entity.Game
	player     *entity.Player
	controller *tictactoe.GameController

	// finished is set by the controller's observer and cleared once the result is recorded.
	finished entity.Outcome
	recorded bool
}

// GameManager runs one game per user on top of tictactoe.GameController.
// Unfinished games are snapshotted after every action, finished ones go to history.
type GameManager struct {
	logger *slog.Logger

	gameService gameService
	botService  botService
	historyRepo historyRepo

	mu    sync.Mutex
	games map[string]*activeGame
}

func NewGameManager(logger *slog.Logger, gameService gameService, botService botService, historyRepo historyRepo) *GameManager {
	return &GameManager{
		logger: logger,

		gameService: gameService,
		botService:  botService,
		historyRepo: historyRepo,

		games: make(map[string]*activeGame),
	}
}

// NewGame starts a game for the session's user, replacing any unfinished one
// without recording it. In hot-seat mode userMark is ignored and the user plays both sides.
func (that *GameManager) NewGame(ctx context.Context, session *entity.Session, mode entity.GameMode, userMark entity.Cell) (*entity.GameView, error) {
	username := session.Username()
	if username == "" {
		return nil, apperror.ErrNotLoggedIn
	}

	var aiMark entity.Cell
	switch mode {
	case entity.ModeVsAI:
		if !userMark.IsPlayer() {
			return nil, fmt.Errorf("%w: choose X or O", entity.ErrInvalidMark)
		}
		aiMark = userMark.Opponent()
	case entity.ModeHotSeat:
		userMark = entity.CellX
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidMode, mode)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.discard(ctx, username); err != nil && !errors.Is(err, apperror.ErrNoActiveGame) {
		return nil, fmt.Errorf("failed to replace game: %w", err)
	}

	gameID := pkg.GenerateGameID()
	player := &entity.Player{ID: username, Mark: userMark, GameID: gameID}

	game := entity.NewGame(gameID, mode, aiMark)
	game.Players = []*entity.Player{player}

	active := newActiveGame(game, player, tictactoe.NewGameController())

	var aiMove *entity.Move
	if aiMark == entity.CellX {
		move, err := that.botService.MakeTurn(active.controller, aiMark)
		if err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
		aiMove = &move
	}

	if err := that.settle(ctx, active); err != nil {
		return nil, err
	}

	that.games[username] = active

	that.logger.Info("game started", "username", username, "gameID", gameID, "mode", mode, "mark", userMark.String())

	return active.view(aiMove), nil
}

// MakeTurn applies the user's move and, against the AI, the AI's reply.
func (that *GameManager) MakeTurn(ctx context.Context, session *entity.Session, row, col int) (*entity.GameView, error) {
	username := session.Username()
	if username == "" {
		return nil, apperror.ErrNotLoggedIn
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	active, ok := that.games[username]
	if !ok {
		return nil, apperror.ErrNoActiveGame
	}

	controller := active.controller
	if active.game.IsWithBot() && !controller.IsFinished() && controller.Turn() != active.player.Mark {
		return nil, apperror.ErrNotYourTurn
	}

	if err := controller.ValidateMove(row, col); err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	// a failed action leaves the game as it was before the user's move
	saved, finished := controller.State(), active.finished

	controller.ApplyMove(row, col)

	var aiMove *entity.Move
	if active.game.IsWithBot() && !controller.IsFinished() {
		move, err := that.botService.MakeTurn(controller, active.game.AIMark)
		if err != nil {
			active.rollback(saved, finished)
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
		aiMove = &move
	}

	if err := that.settle(ctx, active); err != nil {
		active.rollback(saved, finished)
		return nil, err
	}

	return active.view(aiMove), nil
}

// Resume returns the game the user is playing, restoring it from storage
// after a logout or a restart.
func (that *GameManager) Resume(ctx context.Context, session *entity.Session) (*entity.GameView, error) {
	username := session.Username()
	if username == "" {
		return nil, apperror.ErrNotLoggedIn
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if active, ok := that.games[username]; ok && !active.controller.IsFinished() {
		return active.view(nil), nil
	}

	game, player, err := that.gameService.GetActiveGame(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resume game: %w", err)
	}

	controller, err := tictactoe.NewGameControllerFromBoard(game.Board)
	if err == nil && controller.IsFinished() {
		err = tictactoe.ErrInvalidBoard
	}

	if err != nil {
		that.logger.Error("dropping unusable snapshot", "username", username, "gameID", game.ID, "error", err)

		if err = that.gameService.DeleteGame(ctx, game); err != nil {
			that.logger.Error("failed to delete snapshot", "gameID", game.ID, "error", err)
		}

		return nil, apperror.ErrNoActiveGame
	}

	active := newActiveGame(game, player, controller)

	var aiMove *entity.Move
	if game.IsWithBot() && controller.Turn() == game.AIMark {
		move, err := that.botService.MakeTurn(controller, game.AIMark)
		if err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
		aiMove = &move

		if err = that.settle(ctx, active); err != nil {
			return nil, err
		}
	}

	that.games[username] = active

	that.logger.Info("game resumed", "username", username, "gameID", game.ID)

	return active.view(aiMove), nil
}

// Current returns the game the user last played, finished or not, without touching storage.
func (that *GameManager) Current(session *entity.Session) (*entity.GameView, error) {
	username := session.Username()
	if username == "" {
		return nil, apperror.ErrNotLoggedIn
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	active, ok := that.games[username]
	if !ok {
		return nil, apperror.ErrNoActiveGame
	}

	return active.view(nil), nil
}

// Abandon drops the user's unfinished game without recording a result.
func (that *GameManager) Abandon(ctx context.Context, session *entity.Session) error {
	username := session.Username()
	if username == "" {
		return apperror.ErrNotLoggedIn
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if active, ok := that.games[username]; ok && active.controller.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := that.discard(ctx, username); err != nil {
		return fmt.Errorf("failed to abandon game: %w", err)
	}

	that.logger.Info("game abandoned", "username", username)

	return nil
}

// Suspend forgets the user's game in memory. Its snapshot stays in storage for Resume.
func (that *GameManager) Suspend(session *entity.Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.games, session.Username())
}

func (that *GameManager) History(ctx context.Context, session *entity.Session, limit int) ([]*entity.HistoryRecord, error) {
	username := session.Username()
	if username == "" {
		return nil, apperror.ErrNotLoggedIn
	}

	records, err := that.historyRepo.ListByUsername(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return records, nil
}

func (that *GameManager) Stats(ctx context.Context, session *entity.Session) (entity.Stats, error) {
	username := session.Username()
	if username == "" {
		return entity.Stats{}, apperror.ErrNotLoggedIn
	}

	stats, err := that.historyRepo.Stats(ctx, username)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// newActiveGame wires the observer. The caller registers the game once it has been stored.
func newActiveGame(game *entity.Game, player *entity.Player, controller *tictactoe.GameController) *activeGame {
	active := &activeGame{
		game:       game,
		player:     player,
		controller: controller,
	}

	controller.Subscribe(tictactoe.ObserverFunc(func(outcome entity.Outcome, _ entity.Board) {
		active.finished = outcome
	}))

	return active
}

func (that *activeGame) rollback(saved tictactoe.State, finished entity.Outcome) {
	that.controller.Restore(saved)
	that.finished = finished
	that.game.Board = saved.Board
}

// settle persists the game after an action: a snapshot while it is running,
// a history record once the observer has reported the outcome.
func (that *GameManager) settle(ctx context.Context, active *activeGame) error {
	active.game.Board = active.controller.Board()

	if !active.finished.IsFinished() {
		if err := that.gameService.SaveGame(ctx, active.game); err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}
		return nil
	}

	if active.recorded {
		return nil
	}

	log := that.logger.With("method", "settle", "gameID", active.game.ID)

	record := &entity.HistoryRecord{
		ID:       pkg.GenerateRecordID(),
		Username: active.player.ID,
		Opponent: active.game.Mode,
		Mark:     active.player.Mark,
		Result:   entity.ResultFor(active.finished, active.player.Mark),
		Board:    active.game.Board,
		PlayedAt: time.Now().UTC(),
	}

	if err := that.historyRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save game history: %w", err)
	}
	active.recorded = true

	if err := that.gameService.DeleteGame(ctx, active.game); err != nil {
		log.Error("failed to delete finished game", "error", err)
	}

	log.Info("game finished", "username", record.Username, "outcome", active.finished.String(), "result", record.Result)

	return nil
}

// discard removes the user's game from memory and storage.
func (that *GameManager) discard(ctx context.Context, username string) error {
	if active, ok := that.games[username]; ok {
		delete(that.games, username)

		if active.recorded {
			return nil
		}

		return that.gameService.DeleteGame(ctx, active.game)
	}

	game, _, err := that.gameService.GetActiveGame(ctx, username)
	if err != nil {
		return err
	}

	return that.gameService.DeleteGame(ctx, game)
}

func (that *activeGame) view(aiMove *entity.Move) *entity.GameView {
	outcome := that.controller.Outcome()

	return &entity.GameView{
		ID:       that.game.ID,
		Board:    that.controller.Board(),
		Turn:     that.controller.Turn(),
		Outcome:  outcome,
		Mode:     that.game.Mode,
		UserMark: that.player.Mark,
		AIMove:   aiMove,
		Result:   entity.ResultFor(outcome, that.player.Mark),
	}
}
