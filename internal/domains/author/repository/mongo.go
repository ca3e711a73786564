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

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/infrastructure/mongodb"
)

// authorDocument is the stored shape; ids are kept as uuid strings
type authorDocument struct {
	ID          string     `bson:"_id"`
	FirstName   string     `bson:"first_name"`
	FamilyName  string     `bson:"family_name"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `bson:"date_of_death,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func toAuthorDocument(a *model.Author) authorDocument {
	return authorDocument{
		ID:          a.ID.String(),
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: a.DateOfBirth,
		DateOfDeath: a.DateOfDeath,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d authorDocument) toModel() (*model.Author, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt author id %q: %w", d.ID, err)
	}
	return &model.Author{
		ID:          id,
		FirstName:   d.FirstName,
		FamilyName:  d.FamilyName,
		DateOfBirth: d.DateOfBirth,
		DateOfDeath: d.DateOfDeath,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongodb.MongoDB) RepositoryInterface {
	return &mongoRepository{coll: db.Database.Collection(mongodb.AuthorsCollection)}
}

func authorSort(sort string) bson.D {
	dir := 1
	if model.ParseSort(sort) == model.SortNameDesc {
		dir = -1
	}
	return bson.D{{Key: "family_name", Value: dir}, {Key: "first_name", Value: dir}, {Key: "_id", Value: 1}}
}

func (r *mongoRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]model.Author, error) {
	defer cur.Close(ctx)

	var docs []authorDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode authors: %w", err)
	}

	authors := make([]model.Author, 0, len(docs))
	for _, d := range docs {
		a, err := d.toModel()
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	return authors, nil
}

func (r *mongoRepository) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, error) {
	query := bson.M{}
	if filter.Search != "" {
		pattern := primitiveRegex(filter.Search)
		query = bson.M{"$or": bson.A{
			bson.M{"first_name": pattern},
			bson.M{"family_name": pattern},
		}}
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(authorSort(filter.Sort)))
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return r.decodeAll(ctx, cur)
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return n, nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	var doc authorDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return doc.toModel()
}

func (r *mongoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Author, error) {
	out := make(map[uuid.UUID]*model.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make(bson.A, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, fmt.Errorf("failed to get authors by ids: %w", err)
	}
	authors, err := r.decodeAll(ctx, cur)
	if err != nil {
		return nil, err
	}
	for i := range authors {
		out[authors[i].ID] = &authors[i]
	}
	return out, nil
}

func (r *mongoRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id.String()}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return n > 0, nil
}

func (r *mongoRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	created := *a
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, toAuthorDocument(&created)); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return &created, nil
}

// Update replaces the document, keeping _id and created_at
func (r *mongoRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	existing, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	updated := *a
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": a.ID.String()}, toAuthorDocument(&updated))
	if err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, model.ErrAuthorNotFound
	}
	return &updated, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	return nil
}

// primitiveRegex matches s literally, case-insensitive
func primitiveRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}
