package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/redis/go-redis/v9"

	"github.com/ravigill3969/resource-tracker/backend/config"
	"github.com/ravigill3969/resource-tracker/backend/database"
	"github.com/ravigill3969/resource-tracker/backend/export"
	"github.com/ravigill3969/resource-tracker/backend/handlers"
	middleware "github.com/ravigill3969/resource-tracker/backend/middlewares"
	"github.com/ravigill3969/resource-tracker/backend/routes"
	"github.com/ravigill3969/resource-tracker/backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Println("Database connection closed.")
	}()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	err = database.EnsureSchema(schemaCtx, db)
	cancelSchema()
	if err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	tokens, err := utils.NewTokenService(cfg.TokenConfig(), nil)
	if err != nil {
		log.Fatalf("Token service setup failed: %v", err)
	}
	log.Printf("Access tokens are valid for %s", tokens.Lifetime())

	var archiver export.Archiver = export.NopArchiver{}
	if cfg.Export.Bucket != "" {
		awsCfg := &aws.Config{Region: aws.String(cfg.Export.Region)}
		if cfg.Export.AccessKeyID != "" && cfg.Export.SecretAccessKey != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.Export.AccessKeyID, cfg.Export.SecretAccessKey, "")
		}
		sess := session.Must(session.NewSession(awsCfg))
		archiver = &export.S3Archiver{
			Uploader: s3manager.NewUploader(sess),
			Bucket:   cfg.Export.Bucket,
		}
		log.Printf("Exports will be archived to s3://%s", cfg.Export.Bucket)
	}

	clock := handlers.Clock{Location: cfg.Location(), Now: time.Now}
	users := &database.UserStore{DB: db}
	waterLogs := &database.WaterLogStore{DB: db}
	energyLogs := &database.EnergyLogStore{DB: db}
	authMw := &middleware.Authenticator{Tokens: tokens}

	mux := http.NewServeMux()

	routes.RegisterUserRoutes(mux, &handlers.UserHandler{Users: users, Tokens: tokens}, authMw)
	routes.WaterRoutes(mux, &handlers.WaterHandler{Users: users, Logs: waterLogs, Archiver: archiver, Clock: clock}, authMw)
	routes.EnergyRoutes(mux, &handlers.EnergyHandler{Users: users, Logs: energyLogs, Archiver: archiver, Clock: clock}, authMw)
	routes.GeneralRoutes(mux, &handlers.GeneralHandler{DB: db, Users: users, Water: waterLogs, Energy: energyLogs}, authMw)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "This route does not exist")
	})

	var handler http.Handler = mux
	if cfg.RateLimit.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			log.Fatalf("Invalid Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opt)
		defer redisClient.Close()

		handler = middleware.GlobalRateLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)(handler)
		log.Printf("Rate limiting enabled: %d requests per %s", cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}

	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(
		middleware.RequestIDMiddleware(
			middleware.SetCommonHeaders(handler),
		),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("server is running on http://%s (time zone %s)", server.Addr, cfg.TimeZone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
