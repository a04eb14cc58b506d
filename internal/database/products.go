package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(ProductsCollection)}
}

// ListProducts returns products in creation order, optionally only the
// active ones.
func (s *ProductStore) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

// ListDiscounted returns active products carrying a positive discount.
func (s *ProductStore) ListDiscounted(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{
		"active":             true,
		"discountPercentage": bson.M{"$gt": 0},
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

func (s *ProductStore) FindProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var raw bson.M
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, apperror.NotFound("product %s not found", id.Hex())
		}
		return models.Product{}, err
	}
	return normalizeProductDocument(raw)
}

func (s *ProductStore) InsertProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *ProductStore) ReplaceProduct(ctx context.Context, p models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("product %s not found", p.ID.Hex())
	}
	return nil
}

func (s *ProductStore) SetProductActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"active":    active,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("product %s not found", id.Hex())
	}
	return nil
}

func (s *ProductStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("product %s not found", id.Hex())
	}
	return nil
}

// DecrementStock atomically takes quantity units off a product's counter,
// matching only when enough stock remains. It returns the updated product.
func (s *ProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := counterTracked(id)
	filter["stock"] = bson.M{"$gte": quantity}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	var raw bson.M
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&raw)
	if err == nil {
		return normalizeProductDocument(raw)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, err
	}

	current, findErr := s.FindProduct(ctx, id)
	if findErr != nil {
		return models.Product{}, findErr
	}
	available := 0
	if current.Stock != nil {
		available = *current.Stock
	}
	return models.Product{}, &apperror.InsufficientStockError{
		ProductID: id.Hex(),
		Available: available,
		Requested: quantity,
	}
}

// counterTracked matches id only while the product keeps its stock in the
// product-level counter: a numeric stock and no variant entries, whether the
// list is missing, null, empty or a legacy empty string.
func counterTracked(id primitive.ObjectID) bson.M {
	return bson.M{
		"_id":          id,
		"stock":        bson.M{"$type": "number"},
		"imageDetails": bson.M{"$in": bson.A{nil, bson.A{}, "", "[]"}},
	}
}

// RestoreStock adds quantity back to a product counter. Products without a
// counter, or tracked per variant, are left alone and reported as not
// restored.
func (s *ProductStore) RestoreStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		counterTracked(id),
		bson.M{
			"$inc": bson.M{"stock": quantity},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// normalizeProductDocument tolerates legacy documents: string stock values,
// a bare category id and the old isActive flag.
func normalizeProductDocument(raw bson.M) (models.Product, error) {
	if val, ok := raw["stock"]; ok {
		switch typed := val.(type) {
		case int32, int64, nil:
		case float64:
			raw["stock"] = int64(math.Round(typed))
		case string:
			if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
				raw["stock"] = int64(parsed)
			} else {
				raw["stock"] = nil
			}
		default:
			raw["stock"] = nil
		}
	}

	switch typed := raw["category"].(type) {
	case primitive.ObjectID:
		raw["category"] = bson.M{"_id": typed, "name": ""}
	case string:
		if id, err := primitive.ObjectIDFromHex(typed); err == nil {
			raw["category"] = bson.M{"_id": id, "name": ""}
		} else {
			delete(raw, "category")
		}
	}

	if _, ok := raw["active"]; !ok {
		if legacy, ok := raw["isActive"].(bool); ok {
			raw["active"] = legacy
		}
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := bson.Unmarshal(data, &p); err != nil {
		return models.Product{}, fmt.Errorf("decode product %v: %w", raw["_id"], err)
	}
	return p, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// RenameCategory refreshes the category name embedded in product documents.
func (s *ProductStore) RenameCategory(ctx context.Context, categoryID primitive.ObjectID, name string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.coll.UpdateMany(ctx,
		bson.M{"category._id": categoryID},
		bson.M{"$set": bson.M{"category.name": name}},
	)
	return err
}

func (s *ProductStore) CountInCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.coll.CountDocuments(ctx, bson.M{"category._id": categoryID})
}
