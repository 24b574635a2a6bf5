package repository

import (
	"context"
	"errors"
	"fmt"

	cfg "socialserv/src/configuration"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	app "socialserv/src/app"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("document not found")

type (
	// UserDB stores user accounts. FindByEmail reports absence as
	// (nil, nil); lookups by id report absence as ErrNotFound.
	UserDB interface {
		Create(ctx context.Context, user *app.User) error
		FindByEmail(ctx context.Context, email string) (*app.User, error)
		FindByID(ctx context.Context, id string) (*app.User, error)
		UpdateByID(ctx context.Context, id string, fields map[string]any) (*app.User, error)
		Delete(ctx context.Context, id string) error
		PushRefreshToken(ctx context.Context, id, token string) error
		SetRefreshTokens(ctx context.Context, id string, tokens []string) error
	}

	// PostDB stores feed posts.
	PostDB interface {
		Create(ctx context.Context, post *app.Post) error
		FindByID(ctx context.Context, id string) (*app.Post, error)
		FindByUser(ctx context.Context, userID string) ([]app.Post, error)
		FindAll(ctx context.Context) ([]app.Post, error)
		Update(ctx context.Context, id, content, imgUrl string) (*app.Post, error)
		Delete(ctx context.Context, id string) error
		SetReactions(ctx context.Context, id string, like, dislike []string) error
		AddComment(ctx context.Context, id string, comment app.Comment) (*app.Post, error)
	}
)

// Connect opens the Mongo database named in the configuration and
// verifies the connection with a ping before returning it.
func Connect(ctx context.Context, config *cfg.Properties) (*mongo.Database, error) {
	if config == nil {
		return nil, fmt.Errorf("config is not valid")
	}

	ctx, cancel := context.WithTimeout(ctx, config.DB.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", config.DB.URL, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping %s: %w", config.DB.URL, err)
	}
	return client.Database(config.DB.Name), nil
}
