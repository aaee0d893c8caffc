package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

type HistoryRepository interface {
	Save(ctx context.Context, record *entity.HistoryRecord) error
	ListByUsername(ctx context.Context, username string, limit int) ([]*entity.HistoryRecord, error)
	Stats(ctx context.Context, username string) (entity.Stats, error)
}

type historyRepository struct {
	conn *sql.DB
}

func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Save(ctx context.Context, record *entity.HistoryRecord) error {
	query := `INSERT INTO game_history (id, username, opponent, mark, result, board, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.ID,
		record.Username,
		string(record.Opponent),
		record.Mark.String(),
		string(record.Result),
		record.Board.Encode(),
		record.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("can't save game history: %w", err)
	}

	return nil
}

// ListByUsername returns the most recent games first. A non-positive limit returns all of them.
func (that *historyRepository) ListByUsername(ctx context.Context, username string, limit int) ([]*entity.HistoryRecord, error) {
	query := `SELECT id, username, opponent, mark, result, board, played_at
		FROM game_history WHERE username = ? ORDER BY played_at DESC, rowid DESC LIMIT ?`

	if limit <= 0 {
		limit = -1
	}

	rows, err := that.conn.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list game history: %w", err)
	}
	defer rows.Close()

	var records []*entity.HistoryRecord
	for rows.Next() {
		var (
			record           entity.HistoryRecord
			opponent, result string
			mark, board      string
		)

		if err = rows.Scan(&record.ID, &record.Username, &opponent, &mark, &result, &board, &record.PlayedAt); err != nil {
			return nil, fmt.Errorf("can't scan game history: %w", err)
		}

		if record.Mark, err = entity.ParseMark(mark); err != nil {
			return nil, fmt.Errorf("corrupt history record %s: %w", record.ID, err)
		}

		if record.Board, err = entity.DecodeBoard(board); err != nil {
			return nil, fmt.Errorf("corrupt history record %s: %w", record.ID, err)
		}

		record.Opponent = entity.GameMode(opponent)
		record.Result = entity.Result(result)

		records = append(records, &record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list game history: %w", err)
	}

	return records, nil
}

func (that *historyRepository) Stats(ctx context.Context, username string) (entity.Stats, error) {
	query := `SELECT
			COUNT(CASE WHEN result = ? THEN 1 END),
			COUNT(CASE WHEN result = ? THEN 1 END),
			COUNT(CASE WHEN result = ? THEN 1 END)
		FROM game_history WHERE username = ?`

	var stats entity.Stats

	err := that.conn.QueryRowContext(ctx, query,
		string(entity.ResultWin), string(entity.ResultLoss), string(entity.ResultDraw), username,
	).Scan(&stats.Wins, &stats.Losses, &stats.Draws)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("can't count game history: %w", err)
	}

	return stats, nil
}
