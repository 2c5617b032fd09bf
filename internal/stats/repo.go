package stats

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repo struct{ C *mongo.Collection }

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{C: db.Collection("dashboard_stats")}
}

// EnsureSeeded creates the singleton with zeroed counters and the six-month
// placeholder series if it does not exist yet. Safe to call from every
// process at startup.
func (r *Repo) EnsureSeeded(ctx context.Context) error {
	err := r.C.FindOne(ctx, bson.M{"_id": singletonID}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	_, err = r.C.InsertOne(ctx, &Dashboard{
		ID:             singletonID,
		MonthlyRevenue: seedMonths(),
		UpdatedAt:      time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return nil // another process got there first
	}
	return err
}

func (r *Repo) Get(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := r.C.FindOne(ctx, bson.M{"_id": singletonID}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) Put(ctx context.Context, d *Dashboard) error {
	d.ID = singletonID
	opts := options.Replace().SetUpsert(true)
	_, err := r.C.ReplaceOne(ctx, bson.M{"_id": singletonID}, d, opts)
	return err
}
