package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wishlist-service/internal/domain/aggregate"
)

const WishlistCollection = "wishlists"

type wishlistProductDocument struct {
	ProductID string    `bson:"productId"`
	AddedAt   time.Time `bson:"addedAt"`
}

type wishlistDocument struct {
	ID         primitive.ObjectID        `bson:"_id,omitempty"`
	CustomerID string                    `bson:"customerId"`
	Products   []wishlistProductDocument `bson:"products"`
	CreatedAt  time.Time                 `bson:"createdAt"`
	UpdatedAt  time.Time                 `bson:"updatedAt"`
}

type MongoWishlistRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoWishlistRepository(database *mongo.Database) *MongoWishlistRepository {
	return &MongoWishlistRepository{
		collection: database.Collection(WishlistCollection),
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

// EnsureIndexes creates the unique customerId index. Safe to call on every start.
func (r *MongoWishlistRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customerId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uk_wishlists_customerId"),
	})
	if err != nil {
		return fmt.Errorf("failed to create wishlist indexes: %w", err)
	}
	return nil
}

func (r *MongoWishlistRepository) FindByCustomerID(ctx context.Context, customerID string) (*aggregate.Wishlist, error) {
	var doc wishlistDocument
	err := r.collection.FindOne(ctx, bson.M{"customerId": customerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find wishlist: %w", err)
	}
	return doc.toAggregate(), nil
}

// Save upserts by customerId in a single findAndModify so concurrent first
// saves for one customer cannot create two documents.
func (r *MongoWishlistRepository) Save(ctx context.Context, wishlist *aggregate.Wishlist) (*aggregate.Wishlist, error) {
	updatedAt := r.now()
	if !updatedAt.After(wishlist.UpdatedAt()) {
		updatedAt = wishlist.UpdatedAt()
	}

	products := make([]wishlistProductDocument, 0, wishlist.ProductCount())
	for _, p := range wishlist.Products() {
		products = append(products, wishlistProductDocument{ProductID: p.ProductID(), AddedAt: p.AddedAt()})
	}

	filter := bson.M{"customerId": wishlist.CustomerID()}
	update := bson.M{
		"$set": bson.M{
			"products":  products,
			"updatedAt": updatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": wishlist.CreatedAt(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc wishlistDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to save wishlist: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *MongoWishlistRepository) DeleteByCustomerID(ctx context.Context, customerID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"customerId": customerID}); err != nil {
		return fmt.Errorf("failed to delete wishlist: %w", err)
	}
	return nil
}

func (r *MongoWishlistRepository) ExistsByCustomerID(ctx context.Context, customerID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"customerId": customerID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist existence: %w", err)
	}
	return count > 0, nil
}

func (d wishlistDocument) toAggregate() *aggregate.Wishlist {
	products := make([]aggregate.WishlistProduct, 0, len(d.Products))
	for _, p := range d.Products {
		products = append(products, aggregate.NewWishlistProduct(p.ProductID, p.AddedAt))
	}

	var id string
	if !d.ID.IsZero() {
		id = d.ID.Hex()
	}
	return aggregate.RestoreWishlist(id, d.CustomerID, products, d.CreatedAt, d.UpdatedAt)
}
