package service

import (
	"context"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared/validation"
)

// ServiceInterface - business logic cho book pages
type ServiceInterface interface {
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
	CountAuthors(ctx context.Context) (int64, error)
	// ListAuthors is the author choice list for the book form, ordered by family name
	ListAuthors(ctx context.Context) ([]authorModel.Author, error)
	GetByID(ctx context.Context, rawID string) (*model.Book, error)
	// CheckAuthor adds a field error to res when the chosen author does not resolve
	CheckAuthor(ctx context.Context, form model.BookForm, res *validation.Result) error
	// Create returns the existing book and existed=true when the ISBN is already taken
	Create(ctx context.Context, form model.BookForm) (book *model.Book, existed bool, err error)
	Update(ctx context.Context, rawID string, form model.BookForm) (*model.Book, error)
	Delete(ctx context.Context, rawID string) error
}
