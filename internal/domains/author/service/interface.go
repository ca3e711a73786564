package service

import (
	"context"

	"library-catalog/internal/domains/author/model"
	bookModel "library-catalog/internal/domains/book/model"
)

// ServiceInterface - business logic cho author pages.
// Path ids are taken raw; malformed and absent ids both come back as apperror.NotFound.
type ServiceInterface interface {
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, rawID string) (*model.Author, error)
	ListBooks(ctx context.Context, rawID string) ([]bookModel.Book, error)
	Create(ctx context.Context, form model.AuthorForm) (*model.Author, error)
	Update(ctx context.Context, rawID string, form model.AuthorForm) (*model.Author, error)
	// Delete removes every book of the author, then the author. Safe to repeat.
	Delete(ctx context.Context, rawID string) error
	DeleteBook(ctx context.Context, rawBookID string) error
}
