package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	app "socialserv/src/app"
)

func TestInMemoryUserDB(t *testing.T) {
	ctx := context.Background()
	db := NewInMemoryUserDB()

	user := &app.User{Email: "bob@gmail.com", Password: "hash", ImgUrl: "/img.png"}
	if err := db.Create(ctx, user); err != nil {
		t.Fatalf("Create() returned an error: %v", err)
	}
	if user.ID.IsZero() {
		t.Fatal("Create() did not assign an id")
	}

	t.Run("FindByEmail", func(t *testing.T) {
		found, err := db.FindByEmail(ctx, "bob@gmail.com")
		assert.NoError(t, err)
		assert.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)

		missing, err := db.FindByEmail(ctx, "nobody@gmail.com")
		assert.NoError(t, err)
		assert.Nil(t, missing, "unknown email should report absence, not an error")
	})

	t.Run("FindByID", func(t *testing.T) {
		found, err := db.FindByID(ctx, user.ID.Hex())
		assert.NoError(t, err)
		assert.Equal(t, "bob@gmail.com", found.Email)

		_, err = db.FindByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("RefreshTokens", func(t *testing.T) {
		assert.NoError(t, db.PushRefreshToken(ctx, user.ID.Hex(), "tok1"))
		assert.NoError(t, db.PushRefreshToken(ctx, user.ID.Hex(), "tok2"))

		found, _ := db.FindByID(ctx, user.ID.Hex())
		assert.Equal(t, []string{"tok1", "tok2"}, found.RefreshTokens)

		assert.NoError(t, db.SetRefreshTokens(ctx, user.ID.Hex(), []string{"tok2"}))
		found, _ = db.FindByID(ctx, user.ID.Hex())
		assert.Equal(t, []string{"tok2"}, found.RefreshTokens)
	})

	t.Run("UpdateByID", func(t *testing.T) {
		updated, err := db.UpdateByID(ctx, user.ID.Hex(), map[string]any{"imgUrl": "/new.png"})
		assert.NoError(t, err)
		assert.Equal(t, "/new.png", updated.ImgUrl)
		assert.Equal(t, "bob@gmail.com", updated.Email, "untouched fields keep their values")

		_, err = db.UpdateByID(ctx, primitive.NewObjectID().Hex(), map[string]any{"imgUrl": "/x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, db.Delete(ctx, user.ID.Hex()))
		_, err := db.FindByID(ctx, user.ID.Hex())
		assert.ErrorIs(t, err, ErrNotFound)
		// deleting an absent user still succeeds
		assert.NoError(t, db.Delete(ctx, user.ID.Hex()))
	})
}

func TestInMemoryPostDB(t *testing.T) {
	ctx := context.Background()
	db := NewInMemoryPostDB()
	owner := primitive.NewObjectID()

	first := &app.Post{User: owner, UserName: "bob", Content: "first"}
	second := &app.Post{User: owner, UserName: "bob", Content: "second"}
	assert.NoError(t, db.Create(ctx, first))
	assert.NoError(t, db.Create(ctx, second))

	t.Run("FindAllKeepsOrder", func(t *testing.T) {
		posts, err := db.FindAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, posts, 2)
		assert.Equal(t, "first", posts[0].Content)
		assert.Equal(t, "second", posts[1].Content)
	})

	t.Run("FindByUser", func(t *testing.T) {
		posts, err := db.FindByUser(ctx, owner.Hex())
		assert.NoError(t, err)
		assert.Len(t, posts, 2)

		none, err := db.FindByUser(ctx, primitive.NewObjectID().Hex())
		assert.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Update", func(t *testing.T) {
		updated, err := db.Update(ctx, first.ID.Hex(), "edited", "/img.png")
		assert.NoError(t, err)
		assert.Equal(t, "edited", updated.Content)
		assert.Equal(t, "/img.png", updated.ImgUrl)
	})

	t.Run("Reactions", func(t *testing.T) {
		assert.NoError(t, db.SetReactions(ctx, first.ID.Hex(), []string{"u1"}, []string{}))
		found, _ := db.FindByID(ctx, first.ID.Hex())
		assert.Equal(t, []string{"u1"}, found.Like)
	})

	t.Run("Comments", func(t *testing.T) {
		post, err := db.AddComment(ctx, first.ID.Hex(), app.Comment{User: "u1", Comment: "nice"})
		assert.NoError(t, err)
		assert.Len(t, post.Comments, 1)
		post, err = db.AddComment(ctx, first.ID.Hex(), app.Comment{User: "u2", Comment: "later"})
		assert.NoError(t, err)
		assert.Equal(t, "later", post.Comments[1].Comment, "comments append in order")
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, db.Delete(ctx, second.ID.Hex()))
		_, err := db.FindByID(ctx, second.ID.Hex())
		assert.ErrorIs(t, err, ErrNotFound)
		posts, _ := db.FindAll(ctx)
		assert.Len(t, posts, 1)
	})
}
