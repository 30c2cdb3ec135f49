package services

import (
	"context"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/casafin/casafin_backend/internal/dto"
)

// UserSvcFacade defines user directory operations.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
