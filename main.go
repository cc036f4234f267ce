package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"krishilink/internal/auth"
	intconfig "krishilink/internal/config"
	"krishilink/internal/db"
	"krishilink/internal/events"
	router "krishilink/internal/http"
	h "krishilink/internal/http/handlers"
	"krishilink/internal/obs"
	"krishilink/internal/repositories"
	"krishilink/internal/services"
	"krishilink/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatal(err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx := context.Background()

	shutdownTracer, err := obs.InitTracer(ctx, env.ServiceName, env.OTLPEndpoint, env.AppEnv)
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	conn, err := intconfig.ConnectDB(env.DBDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer intconfig.CloseDB()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatalf("schema: %v", err)
	}

	var publisher events.Publisher = events.Noop{}
	if env.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(env.AMQPURL, env.AMQPExchange)
		if err != nil {
			log.Printf("events disabled: %v", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	issuer, err := newIssuer(env)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	users := repositories.UserRepository{DB: conn}
	listings := services.ListingService{
		Listings: repositories.ListingRepository{DB: conn},
		Users:    users,
		Images:   storage.NewImages(env.UploadDir),
		Events:   publisher,
	}

	r := router.NewRouter(router.Deps{
		Issuer:    issuer,
		Origins:   env.CORSAllowedOrigins,
		UploadDir: env.UploadDir,
		System:    h.SystemHandler{DB: conn},
		Auth: h.AuthHandler{
			Service: services.AuthService{Users: users, Hasher: auth.NewHasher(env.BcryptCost)},
			Issuer:  issuer,
		},
		Listings:    h.ListingHandler{Service: listings},
		Tools:       h.ToolHandler{Service: services.ToolService{Tools: repositories.ToolRepository{DB: conn}}},
		Community:   h.CommunityHandler{Service: services.CommunityService{Questions: repositories.QuestionRepository{DB: conn}, Events: publisher}},
		Market:      h.MarketHandler{Service: services.MarketService{Prices: repositories.MarketPriceRepository{DB: conn}}},
		Marketplace: h.MarketplaceHandler{Service: services.MarketplaceService{Store: repositories.MarketplaceRepository{DB: conn}}},
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("KrishiLink API listening on %s (auth=%s)", env.AppAddr, env.AuthMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

func newIssuer(env intconfig.Env) (auth.Issuer, error) {
	if env.AuthMode == intconfig.AuthModeSession {
		if env.SessionDir != "" {
			if err := os.MkdirAll(env.SessionDir, 0o700); err != nil {
				return nil, fmt.Errorf("session dir: %w", err)
			}
		}
		return auth.NewSessionIssuer(env.SessionSecret, env.SessionDir, env.SessionMaxAge, env.IsProduction()), nil
	}
	return auth.TokenIssuer{Tokens: auth.NewTokens(auth.TokenConfig{
		AccessSecret:  env.JWTSecret,
		RefreshSecret: env.JWTRefreshSecret,
		AccessTTL:     env.JWTAccessTTL,
		RefreshTTL:    env.JWTRefreshTTL,
		Issuer:        env.ServiceName,
	})}, nil
}
