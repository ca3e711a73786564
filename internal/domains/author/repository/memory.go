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

	"library-catalog/internal/domains/author/model"
)

// MemoryRepository keeps authors in a map. Used by the dev driver and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]model.Author
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{authors: make(map[uuid.UUID]model.Author)}
}

func (r *MemoryRepository) List(_ context.Context, filter model.AuthorFilter) ([]model.Author, error) {
	fold := cases.Fold()
	needle := fold.String(filter.Search)

	r.mu.RLock()
	out := make([]model.Author, 0, len(r.authors))
	for _, a := range r.authors {
		if needle == "" ||
			strings.Contains(fold.String(a.FirstName), needle) ||
			strings.Contains(fold.String(a.FamilyName), needle) {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	// collator không thread-safe, tạo mới mỗi lần
	col := collate.New(language.English, collate.IgnoreCase)
	desc := model.ParseSort(filter.Sort) == model.SortNameDesc
	sort.SliceStable(out, func(i, j int) bool {
		c := col.CompareString(out[i].FamilyName, out[j].FamilyName)
		if c == 0 {
			c = col.CompareString(out[i].FirstName, out[j].FirstName)
		}
		if c == 0 {
			return out[i].ID.String() < out[j].ID.String()
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	return out, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.authors)), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*model.Author, len(ids))
	for _, id := range ids {
		if a, ok := r.authors[id]; ok {
			out[id] = &a
		}
	}
	return out, nil
}

func (r *MemoryRepository) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.authors[id]
	return ok, nil
}

func (r *MemoryRepository) Create(_ context.Context, a *model.Author) (*model.Author, error) {
	created := *a
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	r.mu.Lock()
	r.authors[created.ID] = created
	r.mu.Unlock()

	return &created, nil
}

func (r *MemoryRepository) Update(_ context.Context, a *model.Author) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.authors[a.ID]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}

	updated := *a
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.authors[a.ID] = updated

	return &updated, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	delete(r.authors, id)
	r.mu.Unlock()
	return nil
}
