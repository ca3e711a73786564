package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/author/repository"
	bookModel "library-catalog/internal/domains/book/model"
	bookRepo "library-catalog/internal/domains/book/repository"
	"library-catalog/internal/shared/apperror"
	"library-catalog/internal/shared/utils"
	"library-catalog/internal/shared/validation"
)

type authorService struct {
	repo  repository.RepositoryInterface
	books bookRepo.RepositoryInterface // cascade khi xóa author
}

func NewAuthorService(repo repository.RepositoryInterface, books bookRepo.RepositoryInterface) ServiceInterface {
	return &authorService{
		repo:  repo,
		books: books,
	}
}

func parseID(rawID string) (uuid.UUID, error) {
	id, ok := utils.ParseUUID(rawID)
	if !ok {
		return uuid.Nil, apperror.NotFound("Invalid author ID", model.ErrInvalidAuthorID)
	}
	return id, nil
}

func translate(err error, op string) error {
	if errors.Is(err, model.ErrAuthorNotFound) {
		return apperror.NotFound("Author not found", err)
	}
	return apperror.Internal(op, err)
}

func (s *authorService) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, error) {
	// stored text đã escape, search phải escape giống vậy
	filter.Search = validation.SearchTerm(filter.Search)
	authors, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("Failed to list authors", err)
	}
	return authors, nil
}

func (s *authorService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperror.Internal("Failed to count authors", err)
	}
	return n, nil
}

func (s *authorService) GetByID(ctx context.Context, rawID string) (*model.Author, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Failed to load author")
	}
	return a, nil
}

func (s *authorService) ListBooks(ctx context.Context, rawID string) ([]bookModel.Book, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	books, err := s.books.ListByAuthor(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to list author books", err)
	}
	return books, nil
}

func (s *authorService) Create(ctx context.Context, form model.AuthorForm) (*model.Author, error) {
	a, err := s.repo.Create(ctx, form.ToAuthor())
	if err != nil {
		return nil, apperror.Internal("Failed to create author", err)
	}

	log.Info().Str("author_id", a.ID.String()).Msg("author created")
	return a, nil
}

// Update replaces the stored author, keeping the path id
func (s *authorService) Update(ctx context.Context, rawID string, form model.AuthorForm) (*model.Author, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	a := form.ToAuthor()
	a.ID = id

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, translate(err, "Failed to update author")
	}
	return updated, nil
}

// Delete: xóa từng book trước, author sau. Nếu bị ngắt giữa chừng thì gọi lại vẫn đúng;
// book còn sót sau khi author đã bị xóa sẽ được orphan sweep dọn.
func (s *authorService) Delete(ctx context.Context, rawID string) error {
	id, ok := utils.ParseUUID(rawID)
	if !ok {
		return nil
	}

	books, err := s.books.ListByAuthor(ctx, id)
	if err != nil {
		return apperror.Internal("Failed to list author books", err)
	}

	for _, b := range books {
		if err := s.books.Delete(ctx, b.ID); err != nil {
			return apperror.Internal("Failed to delete book", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete author", err)
	}

	log.Info().
		Str("author_id", id.String()).
		Int("books_deleted", len(books)).
		Msg("author deleted")
	return nil
}

func (s *authorService) DeleteBook(ctx context.Context, rawBookID string) error {
	id, ok := utils.ParseUUID(rawBookID)
	if !ok {
		return nil
	}

	if err := s.books.Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete book", err)
	}
	return nil
}
