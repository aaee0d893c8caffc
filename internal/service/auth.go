package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
)

type AuthService interface {
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
}

type authServiceImpl struct {
	cost int
}

// NewAuthService returns a bcrypt based AuthService. A cost outside bcrypt's range falls back to the default.
func NewAuthService(cost int) AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &authServiceImpl{
		cost: cost,
	}
}

func (that *authServiceImpl) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), that.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func (that *authServiceImpl) ComparePassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperror.ErrInvalidCredentials
	}

	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}

	return nil
}
