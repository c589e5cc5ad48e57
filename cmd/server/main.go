package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/cache"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/handler"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/storage"
	"go-portfolio-app/internal/view"
	"go-portfolio-app/web"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Database Initialization and Migration ---
	// Migrations are written for MySQL; sqlite3 runs carry a pre-built file.
	if cfg.DB.Driver == "mysql" {
		log.Info("Applying database migrations...")
		if err := data.ApplyMigrations(cfg.DB.DSN, "migrations"); err != nil {
			log.Fatal(err, "Failed to apply migrations")
		}
		log.Info("Migrations applied successfully.")
	}

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	if cfg.DB.Driver == "sqlite3" {
		sessionManager.Store = sqlite3store.New(db.DB)
	} else {
		sessionManager.Store = mysqlstore.New(db.DB)
	}
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	authenticator, err := auth.NewAuthenticator(&cfg.OIDC)
	if err != nil {
		log.Fatal(err, "Failed to initialize authenticator")
	}
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN, "auth_model.conf")
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)

	credentials := auth.NewCredentials(db)
	if err := auth.SeedAdminUser(context.Background(), db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal(err, "Failed to seed admin user")
	}
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite route cache...")
	routeCache, err := cache.New(cfg.Cache.FilePath, time.Duration(cfg.Cache.TTL)*time.Minute)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer routeCache.Close()
	log.Info("Cache initialized.")

	// --- Upload Storage Setup ---
	store := storage.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	relay := storage.NewRelay(store, cfg.Uploads.MaxBytes)

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	gateway := data.NewGateway(db)
	authoring := service.NewAuthoringService(gateway, routeCache, log)
	publishing := service.NewPublishingService(gateway, log)

	publicHandler := handler.NewPublicHandler(publishing, viewService, log)
	adminHandler := handler.NewAdminHandler(authoring, publishing, relay, viewService, log)
	authHandler := handler.NewAuthHandler(credentials, authenticator, sessionManager, viewService, log)
	seoHandler := handler.NewSeoHandler(publishing, cfg.Site.BaseURL)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(handler.RouterConfig{
		Public:      publicHandler,
		Admin:       adminHandler,
		Auth:        authHandler,
		Seo:         seoHandler,
		Session:     sessionManager,
		Authz:       middleware.Authorizer(enforcer, sessionManager),
		Cache:       routeCache,
		View:        viewService,
		Log:         log,
		StaticFS:    web.StaticFS,
		UploadsDir:  cfg.Uploads.Dir,
		UploadsBase: cfg.Uploads.BaseURL,
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
