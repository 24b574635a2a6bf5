package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	app "socialserv/src/app"
)

type MongoUserDB struct {
	collection *mongo.Collection
}

func NewUserDB(db *mongo.Database) *MongoUserDB {
	return &MongoUserDB{collection: db.Collection("users")}
}

func (r *MongoUserDB) Create(ctx context.Context, user *app.User) error {
	if user.RefreshTokens == nil {
		user.RefreshTokens = []string{}
	}
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *MongoUserDB) FindByEmail(ctx context.Context, email string) (*app.User, error) {
	var user app.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *MongoUserDB) FindByID(ctx context.Context, id string) (*app.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user app.User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (r *MongoUserDB) UpdateByID(ctx context.Context, id string, fields map[string]any) (*app.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user app.User
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// Delete removes the user's document. Matching zero documents is not an
// error; only a failing round trip is.
func (r *MongoUserDB) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *MongoUserDB) PushRefreshToken(ctx context.Context, id, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.collection.UpdateByID(ctx, oid, bson.M{
		"$push": bson.M{"refreshTokens": token},
	})
	if err != nil {
		return fmt.Errorf("push refresh token: %w", err)
	}
	return nil
}

func (r *MongoUserDB) SetRefreshTokens(ctx context.Context, id string, tokens []string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.collection.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"refreshTokens": tokens},
	})
	if err != nil {
		return fmt.Errorf("set refresh tokens: %w", err)
	}
	return nil
}
