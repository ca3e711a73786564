package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authorModel "library-catalog/internal/domains/author/model"
	authorRepo "library-catalog/internal/domains/author/repository"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
	"library-catalog/internal/shared/apperror"
	"library-catalog/internal/shared/utils"
	"library-catalog/internal/shared/validation"
)

type bookService struct {
	repo    repository.RepositoryInterface
	authors authorRepo.RepositoryInterface
}

func NewBookService(repo repository.RepositoryInterface, authors authorRepo.RepositoryInterface) ServiceInterface {
	return &bookService{
		repo:    repo,
		authors: authors,
	}
}

func parseID(rawID string) (uuid.UUID, error) {
	id, ok := utils.ParseUUID(rawID)
	if !ok {
		return uuid.Nil, apperror.NotFound("Invalid book ID", model.ErrInvalidBookID)
	}
	return id, nil
}

func translate(err error, op string) error {
	if errors.Is(err, model.ErrBookNotFound) {
		return apperror.NotFound("Book not found", err)
	}
	return apperror.Internal(op, err)
}

func (s *bookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	// stored text đã escape, search phải escape giống vậy
	filter.Search = validation.SearchTerm(filter.Search)
	books, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("Failed to list books", err)
	}
	return books, nil
}

func (s *bookService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperror.Internal("Failed to count books", err)
	}
	return n, nil
}

func (s *bookService) CountAuthors(ctx context.Context) (int64, error) {
	n, err := s.authors.Count(ctx)
	if err != nil {
		return 0, apperror.Internal("Failed to count authors", err)
	}
	return n, nil
}

func (s *bookService) ListAuthors(ctx context.Context) ([]authorModel.Author, error) {
	authors, err := s.authors.List(ctx, authorModel.AuthorFilter{Sort: authorModel.SortNameAsc})
	if err != nil {
		return nil, apperror.Internal("Failed to list authors", err)
	}
	return authors, nil
}

func (s *bookService) GetByID(ctx context.Context, rawID string) (*model.Book, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Failed to load book")
	}
	return b, nil
}

func (s *bookService) CheckAuthor(ctx context.Context, form model.BookForm, res *validation.Result) error {
	if form.AuthorInput == "" {
		// đã có lỗi "Author must not be empty."
		return nil
	}
	if form.AuthorID == uuid.Nil {
		res.Add("author", model.AuthorMissingMessage, form.AuthorInput)
		return nil
	}

	ok, err := s.authors.ExistsByID(ctx, form.AuthorID)
	if err != nil {
		return apperror.Internal("Failed to check author", err)
	}
	if !ok {
		res.Add("author", model.AuthorMissingMessage, form.AuthorInput)
	}
	return nil
}

// Create checks ISBN (case-insensitive) before insert. Check và insert không atomic:
// hai request đồng thời cùng ISBN vẫn có thể tạo trùng.
func (s *bookService) Create(ctx context.Context, form model.BookForm) (*model.Book, bool, error) {
	existing, err := s.repo.FindByISBN(ctx, form.ISBN)
	if err != nil {
		return nil, false, apperror.Internal("Failed to check ISBN", err)
	}
	if existing != nil {
		log.Debug().
			Str("isbn", form.ISBN).
			Str("book_id", existing.ID.String()).
			Msg("isbn already catalogued, redirecting to existing book")
		return existing, true, nil
	}

	created, err := s.repo.Create(ctx, form.ToBook())
	if err != nil {
		return nil, false, apperror.Internal("Failed to create book", err)
	}

	log.Info().Str("book_id", created.ID.String()).Msg("book created")
	return created, false, nil
}

// Update replaces every field, keeping the path id
func (s *bookService) Update(ctx context.Context, rawID string, form model.BookForm) (*model.Book, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	b := form.ToBook()
	b.ID = id

	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		return nil, translate(err, "Failed to update book")
	}
	return updated, nil
}

// Delete is idempotent; a malformed id is a no-op
func (s *bookService) Delete(ctx context.Context, rawID string) error {
	id, ok := utils.ParseUUID(rawID)
	if !ok {
		return nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete book", err)
	}
	return nil
}
