package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "library-catalog/internal/domains/author/model"
	authorRepo "library-catalog/internal/domains/author/repository"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
	"library-catalog/internal/shared/apperror"
)

type fakeBookRepo struct {
	repository.RepositoryInterface

	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*model.Book, error)
	FindByISBNFn func(ctx context.Context, isbn string) (*model.Book, error)
	CreateFn     func(ctx context.Context, b *model.Book) (*model.Book, error)
	UpdateFn     func(ctx context.Context, b *model.Book) (*model.Book, error)
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, model.ErrBookNotFound
}

func (f *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	if f.FindByISBNFn != nil {
		return f.FindByISBNFn(ctx, isbn)
	}
	return nil, nil
}

func (f *fakeBookRepo) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, b)
	}
	created := *b
	created.ID = uuid.New()
	return &created, nil
}

func (f *fakeBookRepo) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, b)
	}
	return b, nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func validForm(authorID string) model.BookForm {
	res := model.FormSchema.Run(url.Values{
		"title":   {"Emma"},
		"author":  {authorID},
		"summary": {"s"},
		"isbn":    {"111"},
	})
	return model.NewBookForm(res)
}

func TestGetByID_ErrorKinds(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &fakeBookRepo{}
	svc := NewBookService(repo, authorRepo.NewMemoryRepository())

	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.ErrorIs(t, err, model.ErrInvalidBookID)
	assert.Contains(t, err.Error(), "Invalid book ID")

	_, err = svc.GetByID(context.Background(), uuid.NewString())
	assert.True(t, apperror.IsNotFound(err))
	assert.Contains(t, err.Error(), "Book not found")

	repo.GetByIDFn = func(context.Context, uuid.UUID) (*model.Book, error) { return nil, boom }
	_, err = svc.GetByID(context.Background(), uuid.NewString())
	assert.False(t, apperror.IsNotFound(err))
	assert.ErrorIs(t, err, boom)
}

func TestCreate_DuplicateISBNRedirectsToExisting(t *testing.T) {
	existing := &model.Book{ID: uuid.New(), ISBN: "111"}
	created := false
	repo := &fakeBookRepo{
		FindByISBNFn: func(_ context.Context, isbn string) (*model.Book, error) {
			assert.Equal(t, "111", isbn)
			return existing, nil
		},
		CreateFn: func(context.Context, *model.Book) (*model.Book, error) {
			created = true
			return nil, nil
		},
	}
	svc := NewBookService(repo, authorRepo.NewMemoryRepository())

	b, existed, err := svc.Create(context.Background(), validForm(uuid.NewString()))
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, existing.ID, b.ID)
	assert.False(t, created)
}

func TestCreate_StoreFailure(t *testing.T) {
	repo := &fakeBookRepo{
		CreateFn: func(context.Context, *model.Book) (*model.Book, error) { return nil, errors.New("disk full") },
	}
	svc := NewBookService(repo, authorRepo.NewMemoryRepository())

	_, _, err := svc.Create(context.Background(), validForm(uuid.NewString()))
	require.Error(t, err)
	assert.False(t, apperror.IsNotFound(err))
}

func TestCheckAuthor(t *testing.T) {
	ctx := context.Background()
	authors := authorRepo.NewMemoryRepository()
	austen, err := authors.Create(ctx, &authorModel.Author{FirstName: "Jane", FamilyName: "Austen"})
	require.NoError(t, err)
	svc := NewBookService(&fakeBookRepo{}, authors)

	cases := []struct {
		name    string
		author  string
		wantErr bool
	}{
		{"existing author", austen.ID.String(), false},
		{"absent author", uuid.NewString(), true},
		{"malformed author", "austen", true},
		{"empty author is left to the required rule", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := model.FormSchema.Run(url.Values{"title": {"Emma"}, "author": {tc.author}, "summary": {"s"}, "isbn": {"1"}})
			require.NoError(t, svc.CheckAuthor(ctx, model.NewBookForm(res), res))

			fe, ok := res.ErrorMap()["author_error"]
			if tc.wantErr {
				require.True(t, ok)
				assert.Equal(t, model.AuthorMissingMessage, fe.Message)
			} else if tc.author != "" {
				assert.False(t, ok)
			}
		})
	}
}

func TestUpdate_KeepsPathID(t *testing.T) {
	id := uuid.New()
	var saved *model.Book
	repo := &fakeBookRepo{
		UpdateFn: func(_ context.Context, b *model.Book) (*model.Book, error) {
			saved = b
			return b, nil
		},
	}
	svc := NewBookService(repo, authorRepo.NewMemoryRepository())

	b, err := svc.Update(context.Background(), id.String(), validForm(uuid.NewString()))
	require.NoError(t, err)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, id, saved.ID)

	repo.UpdateFn = func(context.Context, *model.Book) (*model.Book, error) { return nil, model.ErrBookNotFound }
	_, err = svc.Update(context.Background(), id.String(), validForm(uuid.NewString()))
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_MalformedIDIsNoop(t *testing.T) {
	called := false
	repo := &fakeBookRepo{DeleteFn: func(context.Context, uuid.UUID) error {
		called = true
		return nil
	}}
	svc := NewBookService(repo, authorRepo.NewMemoryRepository())

	require.NoError(t, svc.Delete(context.Background(), "nope"))
	assert.False(t, called)

	require.NoError(t, svc.Delete(context.Background(), uuid.NewString()))
	assert.True(t, called)
}
