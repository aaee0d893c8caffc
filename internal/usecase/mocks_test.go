package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

type mockGameService struct {
	mock.Mock
}

func (that *mockGameService) SaveGame(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameService) GetActiveGame(ctx context.Context, username string) (*entity.Game, *entity.Player, error) {
	args := that.Called(ctx, username)
	game, _ := args.Get(0).(*entity.Game)
	player, _ := args.Get(1).(*entity.Player)
	return game, player, args.Error(2)
}

func (that *mockGameService) DeleteGame(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (that *mockHistoryRepo) Save(ctx context.Context, record *entity.HistoryRecord) error {
	return that.Called(ctx, record).Error(0)
}

func (that *mockHistoryRepo) ListByUsername(ctx context.Context, username string, limit int) ([]*entity.HistoryRecord, error) {
	args := that.Called(ctx, username, limit)
	records, _ := args.Get(0).([]*entity.HistoryRecord)
	return records, args.Error(1)
}

func (that *mockHistoryRepo) Stats(ctx context.Context, username string) (entity.Stats, error) {
	args := that.Called(ctx, username)
	return args.Get(0).(entity.Stats), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (that *mockUserService) SaveUser(ctx context.Context, user *entity.User) error {
	return that.Called(ctx, user).Error(0)
}

func (that *mockUserService) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := that.Called(ctx, username)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (that *mockUserService) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	return that.Called(ctx, username, passwordHash).Error(0)
}
