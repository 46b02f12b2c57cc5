package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cardoctor/db"
	"cardoctor/logger"
	"cardoctor/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listProjection is the view returned by ListByOwner; _id is always included by the store.
var listProjection = bson.D{
	{Key: "img", Value: 1},
	{Key: "service", Value: 1},
	{Key: "date", Value: 1},
	{Key: "price", Value: 1},
	{Key: "status", Value: 1},
}

// immutableFields are never written by Update. email is the owner identity.
var immutableFields = map[string]bool{"_id": true, "email": true}

// EventPublisher receives booking lifecycle events. Failures are logged and never
// returned to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.BookingEvent) error
}

type Repository struct {
	coll   *mongo.Collection
	events EventPublisher
	now    func() time.Time
}

// NewRepository builds a repository over the bookings collection. events may be nil.
func NewRepository(coll *mongo.Collection, events EventPublisher) *Repository {
	return &Repository{coll: coll, events: events, now: time.Now}
}

// Create stores payload as sent. No field is required or checked here.
func (r *Repository) Create(ctx context.Context, payload bson.M) (models.InsertOutcome, error) {
	res, err := r.coll.InsertOne(ctx, payload)
	if err != nil {
		return models.InsertOutcome{}, db.Wrap("insert booking", err)
	}

	out := models.InsertOutcome{Acknowledged: true, InsertedID: res.InsertedID}
	if res.InsertedID == nil {
		logger.WarnContext(ctx, "booking insert returned no id")
		return out, nil
	}

	logger.InfoContext(ctx, "booking inserted", "id", res.InsertedID)
	email, _ := payload["email"].(string)
	r.publish(ctx, models.BookingEvent{
		Action:    models.BookingCreated,
		BookingID: idString(res.InsertedID),
		Email:     email,
	})
	return out, nil
}

// ListByOwner returns the projected bookings of email. When scoped is false every
// booking in the collection is returned regardless of owner. Documents come back as
// stored, whatever types their fields hold.
func (r *Repository) ListByOwner(ctx context.Context, email string, scoped bool) ([]bson.M, error) {
	filter := bson.D{}
	if scoped {
		filter = bson.D{{Key: "email", Value: email}}
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetProjection(listProjection))
	if err != nil {
		return nil, db.Wrap("find bookings", err)
	}

	bookings := []bson.M{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, db.Wrap("decode bookings", err)
	}
	return bookings, nil
}

// Update sets the supplied top-level fields on one booking. Fields not supplied are
// left alone; _id, email and operator keys are dropped. A zero MatchedCount is not an error.
func (r *Repository) Update(ctx context.Context, id string, fields bson.M) (models.UpdateOutcome, error) {
	oid, err := db.ParseID(id)
	if err != nil {
		return models.UpdateOutcome{}, err
	}

	set := bson.M{}
	for k, v := range fields {
		if immutableFields[k] || strings.HasPrefix(k, "$") || k == "" {
			logger.WarnContext(ctx, "booking update ignored field", "id", id, "field", k)
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return models.UpdateOutcome{}, db.ErrEmptyUpdate
	}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return models.UpdateOutcome{}, db.Wrap("update booking", err)
	}

	out := models.UpdateOutcome{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
	if res.MatchedCount == 0 {
		logger.InfoContext(ctx, "booking update matched nothing", "id", id)
		return out, nil
	}
	if res.ModifiedCount > 0 {
		r.publish(ctx, models.BookingEvent{
			Action:    models.BookingUpdated,
			BookingID: id,
			Fields:    sortedKeys(set),
		})
	}
	return out, nil
}

// DeleteByID removes at most one booking. Deleting a missing id yields DeletedCount 0.
func (r *Repository) DeleteByID(ctx context.Context, id string) (models.DeleteOutcome, error) {
	oid, err := db.ParseID(id)
	if err != nil {
		return models.DeleteOutcome{}, err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return models.DeleteOutcome{}, db.Wrap("delete booking", err)
	}

	if res.DeletedCount > 0 {
		r.publish(ctx, models.BookingEvent{Action: models.BookingDeleted, BookingID: id})
	}
	return models.DeleteOutcome{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *Repository) publish(ctx context.Context, ev models.BookingEvent) {
	if r.events == nil {
		return
	}
	ev.At = r.now().UTC()
	if err := r.events.Publish(ctx, ev); err != nil {
		logger.WarnContext(ctx, "booking event publish failed", "action", ev.Action, "id", ev.BookingID, "error", err)
	}
}

func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

func sortedKeys(m bson.M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
