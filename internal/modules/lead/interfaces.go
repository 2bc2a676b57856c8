package lead

import (
	"context"

	"leadflow/internal/domain"
	"leadflow/internal/query"
)

// Repository is the store adapter boundary. Implementations execute
// compiled queries against the underlying store; they never add or remove
// owner scoping themselves.
type Repository interface {
	Create(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Lead, error)
	GetByEmail(ctx context.Context, ownerID int64, email string) (*domain.Lead, error)
	Update(ctx context.Context, l *domain.Lead) error
	Delete(ctx context.Context, ownerID, id int64) (bool, error)
	Count(ctx context.Context, q query.Query) (int64, error)
	Find(ctx context.Context, q query.Query, limit, offset int) ([]domain.Lead, error)
	FindAll(ctx context.Context, q query.Query) ([]domain.Lead, error)
}

// Notifier receives lead change events. Notifications are best effort and
// must never block or fail the mutation that triggered them.
type Notifier interface {
	LeadCreated(ownerID int64, l *domain.Lead)
	LeadUpdated(ownerID int64, l *domain.Lead)
	LeadDeleted(ownerID int64, id int64)
}
