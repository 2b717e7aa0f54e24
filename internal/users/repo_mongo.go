package users

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "users"

// MongoRepo implements Repo on a MongoDB collection. Emails are stored lowercased.
type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{collection: db.Collection(collectionName)}
}

func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "googleSub", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"googleSub": bson.M{"$exists": true}}),
		},
	})
	return err
}

func (r *MongoRepo) Create(ctx context.Context, user User) error {
	user.Email = strings.ToLower(user.Email)
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *MongoRepo) Update(ctx context.Context, user User) error {
	user.Email = strings.ToLower(user.Email)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.findOne(ctx, bson.M{"_id": userID})
}

func (r *MongoRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoRepo) GetByGoogleSub(ctx context.Context, sub string) (User, error) {
	return r.findOne(ctx, bson.M{"googleSub": sub})
}

func (r *MongoRepo) Stats(ctx context.Context) (Stats, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Stats{}, err
	}
	active, err := r.collection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return Stats{}, err
	}
	admins, err := r.collection.CountDocuments(ctx, bson.M{"role": RoleAdmin})
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalUsers: int(total), ActiveUsers: int(active), AdminUsers: int(admins)}, nil
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.M) (User, error) {
	var user User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, ErrNotFound
	}
	return user, err
}

var _ Repo = (*MongoRepo)(nil)
