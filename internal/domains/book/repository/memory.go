package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"library-catalog/internal/domains/book/model"
)

// MemoryRepository keeps books in a map and populates authors from an AuthorLookup.
type MemoryRepository struct {
	mu      sync.RWMutex
	books   map[uuid.UUID]model.Book
	authors AuthorLookup
}

func NewMemoryRepository(authors AuthorLookup) *MemoryRepository {
	return &MemoryRepository{
		books:   make(map[uuid.UUID]model.Book),
		authors: authors,
	}
}

// snapshot copies matching books out under the read lock
func (r *MemoryRepository) snapshot(match func(b *model.Book) bool) []model.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Book, 0, len(r.books))
	for _, b := range r.books {
		if match(&b) {
			out = append(out, b)
		}
	}
	return out
}

func (r *MemoryRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	fold := cases.Fold()
	needle := fold.String(filter.Search)

	books := r.snapshot(func(b *model.Book) bool {
		return needle == "" || strings.Contains(fold.String(b.Title), needle)
	})
	sortBooks(books, model.ParseSort(filter.Sort))

	if err := populate(ctx, r.authors, books); err != nil {
		return nil, err
	}
	return books, nil
}

func sortBooks(books []model.Book, key string) {
	col := collate.New(language.English, collate.IgnoreCase)

	byTitle := func(a, b *model.Book) int {
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	}

	sort.SliceStable(books, func(i, j int) bool {
		a, b := &books[i], &books[j]
		switch key {
		case model.SortTitleDesc:
			if c := col.CompareString(a.Title, b.Title); c != 0 {
				return c > 0
			}
			return a.ID.String() < b.ID.String()
		case model.SortPublishedAsc, model.SortPublishedDesc:
			// không có ngày thì xếp cuối
			if (a.PublicationDate == nil) != (b.PublicationDate == nil) {
				return b.PublicationDate == nil
			}
			if a.PublicationDate != nil && !a.PublicationDate.Equal(*b.PublicationDate) {
				if key == model.SortPublishedDesc {
					return a.PublicationDate.After(*b.PublicationDate)
				}
				return a.PublicationDate.Before(*b.PublicationDate)
			}
			return byTitle(a, b) < 0
		default:
			return byTitle(a, b) < 0
		}
	})
}

func (r *MemoryRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error) {
	books := r.snapshot(func(b *model.Book) bool { return b.AuthorID == authorID })
	sortBooks(books, model.SortTitleAsc)

	if err := populate(ctx, r.authors, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *MemoryRepository) ListOrphans(ctx context.Context) ([]model.Book, error) {
	books := r.snapshot(func(*model.Book) bool { return true })
	if err := populate(ctx, r.authors, books); err != nil {
		return nil, err
	}

	orphans := make([]model.Book, 0)
	for _, b := range books {
		if b.Author == nil {
			orphans = append(orphans, b)
		}
	}
	sort.SliceStable(orphans, func(i, j int) bool { return orphans[i].CreatedAt.Before(orphans[j].CreatedAt) })
	return orphans, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.books)), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	r.mu.RLock()
	b, ok := r.books[id]
	r.mu.RUnlock()
	if !ok {
		return nil, model.ErrBookNotFound
	}

	books := []model.Book{b}
	if err := populate(ctx, r.authors, books); err != nil {
		return nil, err
	}
	return &books[0], nil
}

func (r *MemoryRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	key := model.ISBNKey(isbn)
	matches := r.snapshot(func(b *model.Book) bool { return model.ISBNKey(b.ISBN) == key })
	if len(matches) == 0 {
		return nil, nil
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	if err := populate(ctx, r.authors, matches[:1]); err != nil {
		return nil, err
	}
	return &matches[0], nil
}

func (r *MemoryRepository) Create(_ context.Context, b *model.Book) (*model.Book, error) {
	created := *b
	created.Author = nil
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	r.mu.Lock()
	r.books[created.ID] = created
	r.mu.Unlock()

	return &created, nil
}

func (r *MemoryRepository) Update(_ context.Context, b *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.books[b.ID]
	if !ok {
		return nil, model.ErrBookNotFound
	}

	updated := *b
	updated.Author = nil
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.books[b.ID] = updated

	return &updated, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	delete(r.books, id)
	r.mu.Unlock()
	return nil
}
