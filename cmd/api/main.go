package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"ojalocal/internal/adapter/api"
	"ojalocal/internal/adapter/api/handler"
	apimiddleware "ojalocal/internal/adapter/api/middleware"
	"ojalocal/internal/adapter/api/router"
	"ojalocal/internal/adapter/repository"
	"ojalocal/internal/infrastructure/cache"
	"ojalocal/internal/infrastructure/postgres"
	"ojalocal/internal/usecase"
	"ojalocal/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	db, err := postgres.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var inboxCache usecase.InboxCache
	if cfg.RedisAddr != "" {
		redisClient := cache.NewClient(cfg.RedisAddr)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable at %s, inbox cache disabled: %v", cfg.RedisAddr, err)
		} else {
			inboxCache = cache.NewInboxCache(redisClient, time.Duration(cfg.InboxCacheTTLSecs)*time.Second)
		}
	}

	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	listingRepo := repository.NewPostgresListingRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)
	transactionRepo := repository.NewPostgresTransactionRepository(db)
	notificationRepo := repository.NewPostgresNotificationRepository(db)
	markerRepo := repository.NewPostgresConversationMarkerRepository(db)

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo)
	messageUseCase := usecase.NewMessageUseCase(conversationRepo, listingRepo, userRepo, transactionRepo, markerRepo, inboxCache)
	transactionUseCase := usecase.NewTransactionUseCase(transactionRepo, listingRepo, userRepo, conversationRepo, notificationUseCase, inboxCache)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	messageHandler := handler.NewMessageHandler(messageUseCase)
	transactionHandler := handler.NewTransactionHandler(transactionUseCase)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase)

	router.Setup(e)
	router.SetupMessageRouter(e, messageHandler, authMiddleware)
	router.SetupTransactionRouter(e, transactionHandler, authMiddleware)
	router.SetupNotificationRouter(e, notificationHandler, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
