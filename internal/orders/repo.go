package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dzcommerce/storefront-api/internal/apperr"
)

type Repo struct{ C *mongo.Collection }

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{C: db.Collection("orders")}
}

func (r *Repo) Insert(ctx context.Context, o *Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	_, err := r.C.InsertOne(ctx, o)
	return err
}

// List returns all orders, newest first.
func (r *Repo) List(ctx context.Context) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cur, err := r.C.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, s Status) (*Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validationf("invalid order id")
	}
	upd := bson.M{"$set": bson.M{"status": s}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o Order
	err = r.C.FindOneAndUpdate(ctx, bson.M{"_id": oid}, upd, opts).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid order id")
	}
	res, err := r.C.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// HasRecent reports whether an order with the same product/phone/email triple
// was placed at or after since.
func (r *Repo) HasRecent(ctx context.Context, productID, phone, email string, since time.Time) (bool, error) {
	n, err := r.C.CountDocuments(ctx, bson.M{
		"productId": productID,
		"phone":     phone,
		"email":     email,
		"orderDate": bson.M{"$gte": since},
	})
	return n > 0, err
}

// CountByIP counts orders placed from ip at or after since.
func (r *Repo) CountByIP(ctx context.Context, ip string, since time.Time) (int64, error) {
	return r.C.CountDocuments(ctx, bson.M{
		"ipAddress": ip,
		"orderDate": bson.M{"$gte": since},
	})
}

func (r *Repo) CountOrders(ctx context.Context) (int64, error) {
	return r.C.CountDocuments(ctx, bson.D{})
}

func (r *Repo) CountOrdersByStatus(ctx context.Context, s Status) (int64, error) {
	return r.C.CountDocuments(ctx, bson.M{"status": s})
}

// CountDistinctEmails counts unique customers across the whole collection.
func (r *Repo) CountDistinctEmails(ctx context.Context) (int64, error) {
	vals, err := r.C.Distinct(ctx, "email", bson.D{})
	if err != nil {
		return 0, err
	}
	return int64(len(vals)), nil
}

// DeliveredRevenue sums productPrice*quantity over delivered orders.
func (r *Repo) DeliveredRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": StatusDelivered}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$multiply": bson.A{"$productPrice", "$quantity"}}},
		}}},
	}
	cur, err := r.C.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
