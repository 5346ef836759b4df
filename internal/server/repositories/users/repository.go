package users

import (
	"context"

	"github.com/dbelyaev/recapd/internal/server/models"
)

// Repository persists registered accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
