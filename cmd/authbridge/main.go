package main

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/4wpdev/4wp-auth/internal/config"
	"github.com/4wpdev/4wp-auth/internal/database"
	"github.com/4wpdev/4wp-auth/internal/flow"
	"github.com/4wpdev/4wp-auth/internal/handler"
	ihttp "github.com/4wpdev/4wp-auth/internal/http"
	"github.com/4wpdev/4wp-auth/internal/middleware"
	"github.com/4wpdev/4wp-auth/internal/repository"
	"github.com/4wpdev/4wp-auth/internal/resolver"
	"github.com/4wpdev/4wp-auth/internal/session"
	"github.com/4wpdev/4wp-auth/internal/statestore"
	"github.com/4wpdev/4wp-auth/pkg/logger"
	"github.com/4wpdev/4wp-auth/pkg/oauth"
)

func main() {
	// Initialize basic dependencies.
	ctx, conf := context.Background(), config.Load()
	logger.Init(os.Stdout, conf.Logger.Level, conf.Logger.Pretty)

	// Connect to the database and bring the schema up to date.
	db, err := database.Connect(ctx, conf)
	if err != nil {
		panic(err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		panic(err)
	}

	// Initiate all oauth providers.
	registry := oauth.NewRegistry(
		oauth.NewGmail(providerConfig(conf.Providers.Gmail)),
		oauth.NewFacebook(providerConfig(conf.Providers.Facebook)),
		oauth.NewTikTok(providerConfig(conf.Providers.TikTok)),
	)

	sessions, err := session.NewJWTIssuer(conf.Session.Secret,
		time.Duration(conf.Session.TTLMinutes)*time.Minute)
	if err != nil {
		panic(err)
	}

	loginFlow := flow.New(
		registry,
		stateStore(conf),
		resolver.New(repository.NewRepository(db)),
		sessions,
	)

	// Initialize the HTTP server.
	server := &ihttp.Server{
		Config:     conf,
		Middleware: middleware.Middleware{AllowedOrigin: conf.CORSAllowedOrigin},
		Handler:    handler.NewHandler(conf, loginFlow),
	}

	// This internally calls ListenAndServe.
	// This is a blocking call and will panic if the server is unable to start.
	server.Start()
}

// providerConfig maps one provider's file configs to the oauth package's config model.
func providerConfig(pc config.ProviderConfig) oauth.Config {
	return oauth.Config{
		ClientID:     pc.ClientID,
		ClientSecret: pc.ClientSecret,
		RedirectURI:  pc.RedirectURI,
		Scopes:       pc.Scopes,
	}
}

// stateStore picks the anti-forgery state store implementation.
// Redis keeps states valid across replicas and restarts, the in-memory store suits a single instance.
func stateStore(conf config.Config) statestore.Store {
	ttl := time.Duration(conf.Auth.StateTTLSeconds) * time.Second

	if conf.Redis.Addr == "" {
		return statestore.NewMemory(ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	return statestore.NewRedis(client, ttl)
}
