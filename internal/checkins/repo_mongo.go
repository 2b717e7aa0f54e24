package checkins

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "checkins"

// MongoRepo implements Repo on a MongoDB collection.
type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{collection: db.Collection(collectionName)}
}

// EnsureIndexes creates the indexes the history and analytics queries rely on.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}}},
		{Keys: bson.D{{Key: "assessment.riskLevel", Value: 1}}},
		{Keys: bson.D{{Key: "completedAt", Value: -1}}},
	})
	return err
}

func (r *MongoRepo) Create(ctx context.Context, c CheckIn) error {
	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (CheckIn, error) {
	var c CheckIn
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return CheckIn{}, ErrNotFound
	}
	return c, err
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]CheckIn, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

func (r *MongoRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID})
	return int(n), err
}

func (r *MongoRepo) LatestByUser(ctx context.Context, userID string) (CheckIn, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "completedAt", Value: -1}, {Key: "_id", Value: -1}})
	var c CheckIn
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return CheckIn{}, ErrNotFound
	}
	return c, err
}

func (r *MongoRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]CheckIn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"userId": userID, "completedAt": bson.M{"$gte": since}}, opts)
}

func (r *MongoRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) RiskStatsSince(ctx context.Context, since time.Time) ([]RiskStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"completedAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$assessment.riskLevel"},
			{Key: "count", Value: bson.M{"$sum": 1}},
			{Key: "averageScore", Value: bson.M{"$avg": "$assessment.score"}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []RiskStat
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"followUp.reminderSent": true,
		"followUp.reminderDate": at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]CheckIn, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []CheckIn{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Repo = (*MongoRepo)(nil)
