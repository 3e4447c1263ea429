package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/forum-system/internal/core/domain"
)

// mapErr converts a driver error into the repository error vocabulary.
// notFound and conflict may be nil when the operation cannot produce them.
func mapErr(op string, err error, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, mongo.ErrNoDocuments):
		return notFound
	case conflict != nil && mongo.IsDuplicateKeyError(err):
		return conflict
	default:
		return domain.Unavailable(op, err)
	}
}

func classified(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrUnavailable)
}

// withTx runs fn in a multi-document transaction. The driver retries fn on
// transient transaction errors, so fn must be safe to run more than once.
func withTx(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		return domain.Unavailable("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && !classified(err) {
		return domain.Unavailable("transaction", err)
	}
	return err
}

// nextID hands out monotonically increasing int64 ids per sequence.
func nextID(ctx context.Context, db *mongo.Database, sequence string) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": sequence},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, domain.Unavailable("next "+sequence+" id", err)
	}
	return counter.Value, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
