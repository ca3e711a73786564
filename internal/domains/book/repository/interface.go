package repository

import (
	"context"

	"github.com/google/uuid"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
)

// RepositoryInterface is the book store. Reads populate Book.Author.
type RepositoryInterface interface {
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error)
	// ListOrphans trả về sách có author_id không còn tồn tại
	ListOrphans(ctx context.Context) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// FindByISBN is case-insensitive; nil, nil when nothing matches
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
	Create(ctx context.Context, b *model.Book) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthorLookup resolves author references for drivers that populate in a second query.
type AuthorLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*authorModel.Author, error)
}

// populate attaches authors to books; unknown ids leave Author nil
func populate(ctx context.Context, authors AuthorLookup, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(books))
	ids := make([]uuid.UUID, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.AuthorID]; !ok {
			seen[b.AuthorID] = struct{}{}
			ids = append(ids, b.AuthorID)
		}
	}

	found, err := authors.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range books {
		books[i].Author = found[books[i].AuthorID]
	}
	return nil
}
