package catalog

import (
	"context"
	"errors"

	"cardoctor/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// detailProjection is the field allow-list returned for a single offering.
var detailProjection = bson.D{
	{Key: "title", Value: 1},
	{Key: "price", Value: 1},
	{Key: "img", Value: 1},
	{Key: "service_id", Value: 1},
}

// Catalog reads the externally seeded services collection.
type Catalog struct {
	coll *mongo.Collection
}

func NewCatalog(coll *mongo.Collection) *Catalog {
	return &Catalog{coll: coll}
}

// ListAll returns every offering as stored, in store order. Callers must not rely on the order.
func (c *Catalog) ListAll(ctx context.Context) ([]bson.M, error) {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, db.Wrap("find services", err)
	}

	offerings := []bson.M{}
	if err := cur.All(ctx, &offerings); err != nil {
		return nil, db.Wrap("decode services", err)
	}
	return offerings, nil
}

// GetByID returns the projected offering, or nil with no error when nothing matches.
func (c *Catalog) GetByID(ctx context.Context, id string) (bson.M, error) {
	oid, err := db.ParseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetProjection(detailProjection)
	var offering bson.M
	err = c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&offering)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, db.Wrap("find service", err)
	}
	return offering, nil
}
