package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	app "socialserv/src/app"
	db "socialserv/src/repository"
)

type (
	PostHandler struct {
		posts db.PostDB
		users db.UserDB
	}

	createPostBody struct {
		Content string `json:"content"`
		ImgUrl  string `json:"imgUrl"`
	}

	updatePostBody struct {
		PostId  string `json:"postId"`
		Content string `json:"content"`
		ImgUrl  string `json:"imgUrl"`
	}

	postIdBody struct {
		PostId string `json:"postId"`
	}

	commentBody struct {
		PostId  string `json:"postId"`
		Comment string `json:"comment"`
		// User is accepted for wire compatibility but the attribution
		// always comes from the verified token, never from the body.
		User string `json:"user"`
	}
)

func NewPostHandler(posts db.PostDB, users db.UserDB) *PostHandler {
	return &PostHandler{posts: posts, users: users}
}

func callerID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error: " + err.Error()})
}

// checkEditPermissions allows only the post's owner through. The caller
// must also still exist; a deleted account cannot edit anything.
func (p *PostHandler) checkEditPermissions(c *gin.Context, post *app.Post, userID string) bool {
	if _, err := p.users.FindByID(c.Request.Context(), userID); err != nil {
		internalError(c, err)
		return false
	}
	if post.User.Hex() != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "The user does not have permissions"})
		return false
	}
	return true
}

func (p *PostHandler) Create(c *gin.Context) {
	var body createPostBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Content == "" || body.ImgUrl == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing fields"})
		return
	}

	ctx := c.Request.Context()
	owner, err := p.users.FindByID(ctx, callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}

	post := &app.Post{
		User:      ownerID,
		UserName:  strings.Split(owner.Email, "@")[0],
		CreatedAt: time.Now(),
		Content:   body.Content,
		ImgUrl:    body.ImgUrl,
	}
	if err := p.posts.Create(ctx, post); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"content":  post.Content,
		"_id":      post.ID.Hex(),
		"imgUrl":   post.ImgUrl,
		"userName": post.UserName,
	})
}

func (p *PostHandler) Update(c *gin.Context) {
	var body updatePostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		internalError(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := p.posts.FindByID(ctx, body.PostId)
	if err != nil {
		internalError(c, err)
		return
	}
	if !p.checkEditPermissions(c, post, callerID(c)) {
		return
	}

	// omitted fields keep their current values
	if body.Content == "" {
		body.Content = post.Content
	}
	if body.ImgUrl == "" {
		body.ImgUrl = post.ImgUrl
	}

	updated, err := p.posts.Update(ctx, body.PostId, body.Content, body.ImgUrl)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (p *PostHandler) Delete(c *gin.Context) {
	var body postIdBody
	if err := c.ShouldBindJSON(&body); err != nil {
		internalError(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := p.posts.FindByID(ctx, body.PostId)
	if err != nil {
		internalError(c, err)
		return
	}
	if !p.checkEditPermissions(c, post, callerID(c)) {
		return
	}
	if err := p.posts.Delete(ctx, body.PostId); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, "Your post has been deleted")
}

func (p *PostHandler) MyPosts(c *gin.Context) {
	posts, err := p.posts.FindByUser(c.Request.Context(), callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	if len(posts) == 0 {
		c.JSON(http.StatusOK, "You don't have any posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (p *PostHandler) FetchAll(c *gin.Context) {
	posts, err := p.posts.FindAll(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (p *PostHandler) ById(c *gin.Context) {
	post, err := p.posts.FindByID(c.Request.Context(), c.Query("postId"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (p *PostHandler) Like(c *gin.Context) {
	p.react(c, func(post *app.Post, userID string) string {
		if post.ToggleLike(userID) {
			return "Post has been liked"
		}
		return "Post has been unliked"
	})
}

func (p *PostHandler) Dislike(c *gin.Context) {
	p.react(c, func(post *app.Post, userID string) string {
		if post.ToggleDislike(userID) {
			return "Post has been disliked"
		}
		return "Post has been undisliked"
	})
}

func (p *PostHandler) react(c *gin.Context, toggle func(*app.Post, string) string) {
	var body postIdBody
	if err := c.ShouldBindJSON(&body); err != nil {
		internalError(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := p.posts.FindByID(ctx, body.PostId)
	if err != nil {
		internalError(c, err)
		return
	}
	message := toggle(post, callerID(c))
	if err := p.posts.SetReactions(ctx, body.PostId, post.Like, post.Dislike); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (p *PostHandler) Comment(c *gin.Context) {
	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		internalError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := p.posts.FindByID(ctx, body.PostId); err != nil {
		internalError(c, err)
		return
	}
	post, err := p.posts.AddComment(ctx, body.PostId, app.Comment{
		User:    callerID(c),
		Comment: body.Comment,
	})
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
