package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	db "socialserv/src/repository"
)

type UserHandler struct {
	users db.UserDB
}

func NewUserHandler(users db.UserDB) *UserHandler {
	return &UserHandler{users: users}
}

// Update applies a partial update to the caller's own record. A password
// in the body is re-hashed with a fresh salt before it is stored; other
// fields pass through as given.
func (u *UserHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusNotAcceptable, gin.H{"message": "fail: " + err.Error()})
		return
	}
	delete(fields, "_id")

	if password, ok := fields["password"].(string); ok && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusNotAcceptable, gin.H{"message": "fail: " + err.Error()})
			return
		}
		fields["password"] = string(hashed)
	}

	updated, err := u.users.UpdateByID(c.Request.Context(), callerID(c), fields)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Document not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes the caller's record. Zero matches still count as
// success; the storage layer is not asked to tell the difference.
func (u *UserHandler) Delete(c *gin.Context) {
	if err := u.users.Delete(c.Request.Context(), callerID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted successfully"})
}
