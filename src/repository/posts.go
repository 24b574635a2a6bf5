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

type MongoPostDB struct {
	collection *mongo.Collection
}

func NewPostDB(db *mongo.Database) *MongoPostDB {
	return &MongoPostDB{collection: db.Collection("posts")}
}

func (r *MongoPostDB) Create(ctx context.Context, post *app.Post) error {
	if post.Like == nil {
		post.Like = []string{}
	}
	if post.Dislike == nil {
		post.Dislike = []string{}
	}
	if post.Comments == nil {
		post.Comments = []app.Comment{}
	}
	res, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = id
	}
	return nil
}

func (r *MongoPostDB) FindByID(ctx context.Context, id string) (*app.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var post app.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return &post, nil
}

func (r *MongoPostDB) FindByUser(ctx context.Context, userID string) ([]app.Post, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []app.Post{}, nil
	}
	return r.findMany(ctx, bson.M{"user": oid})
}

func (r *MongoPostDB) FindAll(ctx context.Context) ([]app.Post, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *MongoPostDB) findMany(ctx context.Context, filter bson.M) ([]app.Post, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	posts := []app.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostDB) Update(ctx context.Context, id, content, imgUrl string) (*app.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var post app.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"content": content, "imgUrl": imgUrl}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &post, nil
}

func (r *MongoPostDB) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (r *MongoPostDB) SetReactions(ctx context.Context, id string, like, dislike []string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.collection.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"like": like, "dislike": dislike},
	})
	if err != nil {
		return fmt.Errorf("set reactions: %w", err)
	}
	return nil
}

func (r *MongoPostDB) AddComment(ctx context.Context, id string, comment app.Comment) (*app.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var post app.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": comment}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return &post, nil
}
