package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

type UserService interface {
	SaveUser(ctx context.Context, user *entity.User) error
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	Find(ctx context.Context, username string) (*entity.User, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (that *userService) SaveUser(ctx context.Context, user *entity.User) error {
	if err := that.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("could not save user: %w", err)
	}
	return nil
}

func (that *userService) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := that.userRepo.Find(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("could not get user by username: %w", err)
	}

	return user, nil
}

func (that *userService) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	if err := that.userRepo.UpdatePasswordHash(ctx, username, passwordHash); err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}
	return nil
}
