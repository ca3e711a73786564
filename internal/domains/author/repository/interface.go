package repository

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/author/model"
)

// RepositoryInterface is the author store. Implemented by the postgres, mongo and
// memory drivers and by the count-caching decorator.
type RepositoryInterface interface {
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	// GetByIDs trả về map id -> author, id không tồn tại thì bỏ qua
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Author, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, a *model.Author) (*model.Author, error)
	Update(ctx context.Context, a *model.Author) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
