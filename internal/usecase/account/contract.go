package account

import (
	"context"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Repository defines the storage contract for accounts.
type Repository interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
}
