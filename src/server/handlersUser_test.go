package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserUpdate(t *testing.T) {
	env := newTestEnv(t, testConfig())
	registered := env.register(t, "self@example.com", "secret1")
	token := asString(t, registered, "accessToken")

	t.Run("email change", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/user", gin.H{"email": "renamed@example.com"}, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "renamed@example.com", asString(t, decodeBody(t, w), "email"))

		user, err := env.users.FindByEmail(context.Background(), "renamed@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("password is stored re-hashed", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/user", gin.H{"password": "changed1"}, token)
		assert.Equal(t, http.StatusOK, w.Code)

		user, _ := env.users.FindByEmail(context.Background(), "renamed@example.com")
		assert.NotEqual(t, "changed1", user.Password)
		assert.NoError(t, user.CheckPassword("changed1"))
		assert.Error(t, user.CheckPassword("secret1"))
	})

	t.Run("id in the body is ignored", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/user",
			gin.H{"_id": "ffffffffffffffffffffffff", "imgUrl": "/new.png"}, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, asString(t, registered, "_id"), asString(t, decodeBody(t, w), "_id"))
	})

	t.Run("malformed body", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/user", "not an object", token)
		assert.Equal(t, http.StatusNotAcceptable, w.Code)
	})
}

func TestUserDelete(t *testing.T) {
	env := newTestEnv(t, testConfig())
	registered := env.register(t, "leaver@example.com", "secret1")
	token := asString(t, registered, "accessToken")

	w := env.do(t, http.MethodDelete, "/user", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted successfully", asString(t, decodeBody(t, w), "message"))

	user, err := env.users.FindByEmail(context.Background(), "leaver@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)

	t.Run("repeat delete still succeeds", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/user", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("update after delete is not found", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/user", gin.H{"imgUrl": "/gone.png"}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Document not found.", asString(t, decodeBody(t, w), "message"))
	})
}
