package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	app "socialserv/src/app"
	cfg "socialserv/src/configuration"
	db "socialserv/src/repository"
)

func RunServer(config *cfg.Properties) {
	ctx := context.Background()

	database, err := db.Connect(ctx, config)
	if err != nil {
		log.Fatalf("database not respond %v", err)
	}
	users := db.NewUserDB(database)
	posts := db.NewPostDB(database)

	var verifier app.CredentialVerifier
	if googleVerifier, err := app.NewGoogleVerifier(ctx, config.Google.ClientID); err != nil {
		log.Printf("Error creating OIDC provider: %v", err)
	} else {
		verifier = googleVerifier
	}

	store, err := newFileStore(config)
	if err != nil {
		log.Fatalf("can not create file store %v", err)
	}

	router := SetupRouter(config, users, posts, verifier, store)

	if config.Server.TLSCert != "" && config.Server.TLSKey != "" {
		go func() {
			if err := router.RunTLS(fmt.Sprintf(":%s", config.Server.HTTPSPort),
				config.Server.TLSCert, config.Server.TLSKey); err != nil {
				log.Printf("https server stopped: %v", err)
			}
		}()
	}
	router.Run(fmt.Sprintf(":%s", config.Server.Port))
}

func newFileStore(config *cfg.Properties) (app.FileStore, error) {
	if config.Upload.Backend == "s3" {
		clientS3, err := app.NewMinioS3Client(
			config.S3.Host,
			config.S3.AccessKey,
			config.S3.SecretKey,
			config.S3.Bucket,
			config.S3.UseSSL)
		if err != nil {
			return nil, err
		}
		return app.NewMinioStore(clientS3), nil
	}
	return app.NewDiskStore(config.Upload.Dir, config.Server.URL)
}

// SetupRouter wires every route against the given stores so tests can
// run the exact production routing with in-memory backends.
func SetupRouter(config *cfg.Properties, users db.UserDB, posts db.PostDB, verifier app.CredentialVerifier, store app.FileStore) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "User-Agent", "Referrer", "Host"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if config.EnablePprof {
		pprof.Register(router)
	}

	tokens := app.NewTokenService(config.JWT.Secret, config.JWT.RefreshSecret, config.JWT.Expiration)
	authHandler := NewAuthHandler(users, tokens, verifier, oauthConfig(config))
	userHandler := NewUserHandler(users)
	postHandler := NewPostHandler(posts, users)
	fileHandler := NewFileHandler(store)
	guard := AuthRequired(tokens)

	auth := router.Group("/auth")
	if config.Rate.Enabled {
		auth.Use(RateLimit(config.Rate.RPS, config.Rate.Burst))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/refresh", authHandler.Refresh)
	auth.POST("/google", authHandler.GoogleSignin)
	if authHandler.oauthConfig != nil {
		auth.GET("/google/url", authHandler.GoogleURL)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	user := router.Group("/user", guard)
	user.POST("", userHandler.Update)
	user.DELETE("", userHandler.Delete)

	post := router.Group("/post", guard)
	post.POST("/create", postHandler.Create)
	post.PUT("/update", postHandler.Update)
	post.GET("/myPosts", postHandler.MyPosts)
	post.PUT("/like", postHandler.Like)
	post.PUT("/dislike", postHandler.Dislike)
	post.PUT("/comment", postHandler.Comment)
	post.DELETE("/delete", postHandler.Delete)
	post.GET("/fetch", postHandler.FetchAll)
	post.GET("/byId", postHandler.ById)

	router.POST("/file", fileHandler.Upload)
	if config.Upload.Backend != "s3" {
		router.Static("/public", config.Upload.Dir)
	}

	router.NoRoute(func(ctx *gin.Context) { ctx.JSON(http.StatusNotFound, gin.H{}) })
	return router
}

// oauthConfig is nil unless the redirect flow is fully configured; the
// credential POST endpoint works without it.
func oauthConfig(config *cfg.Properties) *oauth2.Config {
	if config.Google.ClientSecret == "" || config.Google.Redirect == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     config.Google.ClientID,
		ClientSecret: config.Google.ClientSecret,
		RedirectURL:  config.Google.Redirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}
