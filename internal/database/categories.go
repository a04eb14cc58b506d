package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type CategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{coll: db.Collection(CategoriesCollection)}
}

func (s *CategoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) FindCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return s.findOne(ctx, bson.M{"_id": id}, id.Hex())
}

func (s *CategoryStore) FindCategoryByName(ctx context.Context, name string) (models.Category, error) {
	return s.findOne(ctx, bson.M{"name": name}, name)
}

func (s *CategoryStore) findOne(ctx context.Context, filter bson.M, label string) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var category models.Category
	if err := s.coll.FindOne(ctx, filter).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Category{}, apperror.NotFound("category %s not found", label)
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryStore) InsertCategory(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("category %q already exists", category.Name)
		}
		return err
	}
	return nil
}

func (s *CategoryStore) ReplaceCategory(ctx context.Context, category models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("category %q already exists", category.Name)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("category %s not found", category.ID.Hex())
	}
	return nil
}

func (s *CategoryStore) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("category %s not found", id.Hex())
	}
	return nil
}
