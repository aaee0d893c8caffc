package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/testing/suite"
)

var finalBoard = entity.Board{
	{entity.CellX, entity.CellX, entity.CellX},
	{entity.CellO, entity.CellO, entity.CellEmpty},
	{entity.CellEmpty, entity.CellEmpty, entity.CellEmpty},
}

func saveRecords(ctx context.Context, t *testing.T, repo HistoryRepository, username string, results ...entity.Result) {
	t.Helper()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, result := range results {
		record := &entity.HistoryRecord{
			ID:       username + "-" + string(rune('a'+i)),
			Username: username,
			Opponent: entity.ModeVsAI,
			Mark:     entity.CellX,
			Result:   result,
			Board:    finalBoard,
			PlayedAt: start.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Save(ctx, record))
	}
}

func TestHistoryRepository_ListByUsername(t *testing.T) {
	t.Run("Newest first", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		require.NoError(t, NewUserRepository(st.Connection).Save(ctx, newUser("alice")))
		historyRepo := NewHistoryRepository(st.Connection)

		// Given: three finished games
		saveRecords(ctx, t, historyRepo, "alice", entity.ResultWin, entity.ResultLoss, entity.ResultDraw)

		// When: all records are listed
		records, err := historyRepo.ListByUsername(ctx, "alice", 0)

		// Then: they come back newest first with every field intact
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "alice-c", records[0].ID)
		assert.Equal(t, entity.ResultDraw, records[0].Result)
		assert.Equal(t, entity.ModeVsAI, records[0].Opponent)
		assert.Equal(t, entity.CellX, records[0].Mark)
		assert.Equal(t, finalBoard, records[0].Board)
		assert.Equal(t, "alice-a", records[2].ID)
	})

	t.Run("Limit", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		require.NoError(t, NewUserRepository(st.Connection).Save(ctx, newUser("alice")))
		historyRepo := NewHistoryRepository(st.Connection)
		saveRecords(ctx, t, historyRepo, "alice", entity.ResultWin, entity.ResultLoss, entity.ResultDraw)

		records, err := historyRepo.ListByUsername(ctx, "alice", 2)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "alice-c", records[0].ID)
		assert.Equal(t, "alice-b", records[1].ID)
	})

	t.Run("Unknown user has no history", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		records, err := NewHistoryRepository(st.Connection).ListByUsername(ctx, "nobody", 10)

		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestHistoryRepository_Save(t *testing.T) {
	ctx, st := suite.NewSQLite(t)

	historyRepo := NewHistoryRepository(st.Connection)

	// When: a record is saved for a user that was never registered
	err := historyRepo.Save(ctx, &entity.HistoryRecord{
		ID:       "orphan",
		Username: "ghost",
		Opponent: entity.ModeHotSeat,
		Mark:     entity.CellO,
		Result:   entity.ResultDraw,
		PlayedAt: time.Now().UTC(),
	})

	// Then: the foreign key rejects it
	require.Error(t, err)
}

func TestHistoryRepository_Stats(t *testing.T) {
	ctx, st := suite.NewSQLite(t)

	userRepo := NewUserRepository(st.Connection)
	require.NoError(t, userRepo.Save(ctx, newUser("alice")))
	require.NoError(t, userRepo.Save(ctx, newUser("bob")))

	historyRepo := NewHistoryRepository(st.Connection)

	// Given: games for two users
	saveRecords(ctx, t, historyRepo, "alice", entity.ResultWin, entity.ResultWin, entity.ResultDraw, entity.ResultLoss)
	saveRecords(ctx, t, historyRepo, "bob", entity.ResultLoss)

	// When: stats are computed for alice
	stats, err := historyRepo.Stats(ctx, "alice")

	// Then: only her games are counted
	require.NoError(t, err)
	assert.Equal(t, entity.Stats{Wins: 2, Losses: 1, Draws: 1}, stats)
	assert.Equal(t, 4, stats.Total())
}
