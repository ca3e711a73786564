package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/infrastructure/mongodb"
)

// bookDocument is the stored shape; author holds the referenced author's uuid
type bookDocument struct {
	ID              string     `bson:"_id"`
	Title           string     `bson:"title"`
	Author          string     `bson:"author"`
	Summary         string     `bson:"summary"`
	ISBN            string     `bson:"isbn"`
	PublicationDate *time.Time `bson:"publication_date,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

func toBookDocument(b *model.Book) bookDocument {
	return bookDocument{
		ID:              b.ID.String(),
		Title:           b.Title,
		Author:          b.AuthorID.String(),
		Summary:         b.Summary,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (d bookDocument) toModel() (*model.Book, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt book id %q: %w", d.ID, err)
	}
	// author không parse được thì coi như orphan
	authorID, _ := uuid.Parse(d.Author)

	return &model.Book{
		ID:              id,
		Title:           d.Title,
		AuthorID:        authorID,
		Summary:         d.Summary,
		ISBN:            d.ISBN,
		PublicationDate: d.PublicationDate,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// isbnCollation makes isbn equality case-insensitive
var isbnCollation = &options.Collation{Locale: "en", Strength: 2}

type mongoRepository struct {
	coll    *mongo.Collection
	authors AuthorLookup
}

// NewMongoRepository populates authors through a second query on the author store.
func NewMongoRepository(db *mongodb.MongoDB, authors AuthorLookup) RepositoryInterface {
	return &mongoRepository{
		coll:    db.Database.Collection(mongodb.BooksCollection),
		authors: authors,
	}
}

// sortStage orders by the requested key; documents without a date go last
func sortStage(sort string) bson.D {
	switch model.ParseSort(sort) {
	case model.SortTitleDesc:
		return bson.D{{Key: "title", Value: -1}, {Key: "_id", Value: 1}}
	case model.SortPublishedAsc:
		return bson.D{{Key: "no_date", Value: 1}, {Key: "publication_date", Value: 1}, {Key: "title", Value: 1}, {Key: "_id", Value: 1}}
	case model.SortPublishedDesc:
		return bson.D{{Key: "no_date", Value: 1}, {Key: "publication_date", Value: -1}, {Key: "title", Value: 1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}
	}
}

func (r *mongoRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]model.Book, error) {
	defer cur.Close(ctx)

	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		b, err := d.toModel()
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, nil
}

func (r *mongoRepository) findPopulated(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]model.Book, error) {
	cur, err := r.coll.Find(ctx, query, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	books, err := r.decodeAll(ctx, cur)
	if err != nil {
		return nil, err
	}
	if err := populate(ctx, r.authors, books); err != nil {
		return nil, fmt.Errorf("failed to populate authors: %w", err)
	}
	return books, nil
}

func (r *mongoRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	match := bson.M{}
	if filter.Search != "" {
		match["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"no_date": bson.M{"$cond": bson.A{bson.M{"$ifNull": bson.A{"$publication_date", false}}, 0, 1}},
		}}},
		{{Key: "$sort", Value: sortStage(filter.Sort)}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline, options.Aggregate().SetCollation(&options.Collation{Locale: "en"}))
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	books, err := r.decodeAll(ctx, cur)
	if err != nil {
		return nil, err
	}
	if err := populate(ctx, r.authors, books); err != nil {
		return nil, fmt.Errorf("failed to populate authors: %w", err)
	}
	return books, nil
}

func (r *mongoRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error) {
	return r.findPopulated(ctx, bson.M{"author": authorID.String()},
		options.Find().SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}))
}

// ListOrphans loads distinct author refs, resolves them, then fetches books whose ref is missing
func (r *mongoRepository) ListOrphans(ctx context.Context) ([]model.Book, error) {
	refs, err := r.coll.Distinct(ctx, "author", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list author refs: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(refs))
	dangling := bson.A{}
	for _, ref := range refs {
		s, _ := ref.(string)
		id, err := uuid.Parse(s)
		if err != nil {
			dangling = append(dangling, ref)
			continue
		}
		ids = append(ids, id)
	}

	found, err := r.authors.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authors: %w", err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			dangling = append(dangling, id.String())
		}
	}
	if len(dangling) == 0 {
		return []model.Book{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"author": bson.M{"$in": dangling}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orphan books: %w", err)
	}
	return r.decodeAll(ctx, cur)
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

func (r *mongoRepository) findOne(ctx context.Context, query bson.M, opts ...*options.FindOneOptions) (*model.Book, error) {
	var doc bookDocument
	if err := r.coll.FindOne(ctx, query, opts...).Decode(&doc); err != nil {
		return nil, err
	}
	b, err := doc.toModel()
	if err != nil {
		return nil, err
	}

	books := []model.Book{*b}
	if err := populate(ctx, r.authors, books); err != nil {
		return nil, fmt.Errorf("failed to populate author: %w", err)
	}
	return &books[0], nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, err := r.findOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return b, nil
}

func (r *mongoRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	b, err := r.findOne(ctx, bson.M{"isbn": isbn},
		options.FindOne().SetCollation(isbnCollation).SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find book by isbn: %w", err)
	}
	return b, nil
}

func (r *mongoRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	created := *b
	created.Author = nil
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, toBookDocument(&created)); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return &created, nil
}

func (r *mongoRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	var existing bookDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": b.ID.String()}).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}

	updated := *b
	updated.Author = nil
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": b.ID.String()}, toBookDocument(&updated))
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, model.ErrBookNotFound
	}
	return &updated, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}
