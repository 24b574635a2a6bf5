package server

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	app "socialserv/src/app"
	db "socialserv/src/repository"
)

const minPasswordLen = 6

type (
	AuthHandler struct {
		users            db.UserDB
		tokens           *app.TokenService
		verifier         app.CredentialVerifier
		oauthConfig      *oauth2.Config
		oauthStateString string
	}

	registerBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		ImgUrl   string `json:"imgUrl"`
	}

	loginBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	credentialBody struct {
		Credential string `json:"credential"`
	}

	// tokenPair rides along with user fields in auth responses.
	tokenPair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	loginResponse struct {
		app.User
		tokenPair
	}
)

func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func NewAuthHandler(users db.UserDB, tokens *app.TokenService, verifier app.CredentialVerifier, oauthConfig *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		users:       users,
		tokens:      tokens,
		verifier:    verifier,
		oauthConfig: oauthConfig,
	}
}

// issueTokens signs a new pair and appends the refresh token to the
// user's stored set. Every call grows the set; only logout and refresh
// shrink it.
func (a *AuthHandler) issueTokens(c *gin.Context, userID string) (*tokenPair, error) {
	access, refresh, err := a.tokens.IssueTokens(userID)
	if err != nil {
		return nil, err
	}
	if err := a.users.PushRefreshToken(c.Request.Context(), userID, refresh); err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (a *AuthHandler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing fields"})
		return
	}
	if body.Email == "" || body.Password == "" || body.ImgUrl == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing fields"})
		return
	}
	if len(body.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid password length"})
		return
	}

	existing, err := a.users.FindByEmail(c.Request.Context(), body.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred during registration"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusNotAcceptable, gin.H{"message": "email already exists"})
		return
	}

	user := &app.User{Email: body.Email, Password: body.Password, ImgUrl: body.ImgUrl}
	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred during registration"})
		return
	}
	if err := a.users.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred during registration"})
		return
	}

	tokens, err := a.issueTokens(c, user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred during registration"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"email":        user.Email,
		"_id":          user.ID.Hex(),
		"imgUrl":       user.ImgUrl,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

func (a *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing email or password"})
		return
	}
	if body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing email or password"})
		return
	}

	user, err := a.users.FindByEmail(c.Request.Context(), body.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred during login"})
		return
	}
	// same response for unknown email and wrong password
	if user == nil || user.CheckPassword(body.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "email or password incorrect"})
		return
	}

	tokens, err := a.issueTokens(c, user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred during login"})
		return
	}
	user.RefreshTokens = append(user.RefreshTokens, tokens.RefreshToken)
	c.JSON(http.StatusOK, loginResponse{User: *user, tokenPair: *tokens})
}

func (a *AuthHandler) Logout(c *gin.Context) {
	refreshToken, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing refresh token"})
		return
	}
	userID, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	// a signed token we no longer track means the token leaked or was
	// replayed; drop every session for this user
	if !user.HasRefreshToken(refreshToken) {
		if err := a.users.SetRefreshTokens(ctx, userID, []string{}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown refresh token"})
		return
	}

	if err := a.users.SetRefreshTokens(ctx, userID, user.RemoveRefreshToken(refreshToken)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (a *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "missing refresh token"})
		return
	}
	userID, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "invalid refresh token"})
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
		return
	}
	if !user.HasRefreshToken(refreshToken) {
		_ = a.users.SetRefreshTokens(ctx, userID, []string{})
		c.JSON(http.StatusForbidden, gin.H{"message": "unknown refresh token"})
		return
	}

	access, refresh, err := a.tokens.IssueTokens(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
		return
	}
	// rotate: the presented token leaves the set, the new one replaces it
	rotated := append(user.RemoveRefreshToken(refreshToken), refresh)
	if err := a.users.SetRefreshTokens(ctx, userID, rotated); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tokenPair{AccessToken: access, RefreshToken: refresh})
}

func (a *AuthHandler) GoogleSignin(c *gin.Context) {
	var body credentialBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Credential == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing credential"})
		return
	}
	if a.verifier == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "google sign-in is not configured"})
		return
	}
	identity, err := a.verifier.Verify(c.Request.Context(), body.Credential)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	a.signinVerified(c, identity)
}

// signinVerified finishes federated sign-in once the identity has been
// verified, creating the account on first contact.
func (a *AuthHandler) signinVerified(c *gin.Context, identity *app.GoogleIdentity) {
	ctx := c.Request.Context()
	user, err := a.users.FindByEmail(ctx, identity.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if user == nil {
		user = &app.User{
			Email:    identity.Email,
			Password: app.SentinelPassword,
			ImgUrl:   identity.Picture,
		}
		if err := a.users.Create(ctx, user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
	}

	tokens, err := a.issueTokens(c, user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email":        user.Email,
		"_id":          user.ID.Hex(),
		"imgUrl":       user.ImgUrl,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// GoogleURL starts the server-side OAuth flow for clients that cannot
// run the browser credential prompt.
func (a *AuthHandler) GoogleURL(c *gin.Context) {
	a.oauthStateString, _ = randString(16)
	c.JSON(http.StatusOK, gin.H{"ref": a.oauthConfig.AuthCodeURL(a.oauthStateString)})
}

func (a *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state != a.oauthStateString {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no current state found"})
		return
	}

	token, err := a.oauthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "error getting access token: " + err.Error()})
		return
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no ID token found in callback"})
		return
	}

	identity, err := a.verifier.Verify(c.Request.Context(), rawIDToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	a.signinVerified(c, identity)
}
