package repository

import (
	"context"
	"errors"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func userFilter(f domain.UserFilter) bson.M {
	if f.Unrestricted() {
		return bson.M{}
	}
	return bson.M{"email": f.Email}
}

func (r *Repository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOneUser(ctx, bson.M{"_id": id})
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOneUser(ctx, bson.M{"email": email})
}

func (r *Repository) findOneUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	user := &domain.User{}
	if err := r.db.Collection(usersCollection).FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.db.Collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *Repository) FindUsers(ctx context.Context, filter domain.UserFilter, skip, limit int64) ([]*domain.User, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(usersCollection).Find(ctx, userFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	for cursor.Next(ctx) {
		user := &domain.User{}
		if err := cursor.Decode(user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
