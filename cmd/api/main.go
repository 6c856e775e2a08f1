package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "agriloan-backend/internal/adapter/http"
	"agriloan-backend/internal/adapter/middleware"
	"agriloan-backend/internal/adapter/repository/mysql"
	"agriloan-backend/internal/config"
	domain "agriloan-backend/internal/domain/application"
	"agriloan-backend/internal/infrastructure/blob"
	"agriloan-backend/internal/infrastructure/cache"
	"agriloan-backend/internal/infrastructure/db"
	"agriloan-backend/internal/notify"
	appuc "agriloan-backend/internal/usecase/application"
	"agriloan-backend/internal/usecase/document"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(&domain.Application{}, &domain.DocumentRef{}, &domain.Review{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	store, err := openBlobStore(cfg)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	repo := mysql.NewApplicationRepository(gdb)
	uow := mysql.NewGormUoW(gdb)
	docs := document.NewService(store, cfg.MaxDocumentBytes)
	notifier := notify.NewStreamNotifier(rdb, cfg.NotificationStream)
	uc := appuc.NewUsecase(repo, uow, docs, notifier)

	h := httpadp.NewHandler()
	loans := httpadp.NewLoanHandler(uc, cfg.MaxDocumentBytes, cfg.SubmitTimeout)
	reviews := httpadp.NewReviewHandler(uc)
	quotes := httpadp.NewQuoteHandler()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	// one request may carry several 5 MiB documents
	e.Use(echomw.BodyLimit("32M"))

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1",
		middleware.JWTAuth([]byte(cfg.JWTSecret)),
		middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)
	api.POST("/quotes", quotes.Quote)
	api.POST("/loans", loans.Submit)
	api.GET("/loans", loans.ListOwn)
	api.GET("/loans/:application_id", loans.GetDetail)
	api.GET("/loans/:application_id/documents/:document_id", loans.GetDocument)
	api.GET("/loans/:application_id/documents/:document_id/meta", loans.DescribeDocument)

	admin := api.Group("/admin", middleware.RequireReviewer())
	admin.GET("/loans", reviews.List)
	admin.GET("/loans/:application_id", reviews.GetDetail)
	admin.PATCH("/loans/:application_id/status", reviews.SetStatus)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func openBlobStore(cfg *config.Config) (blob.Store, error) {
	if cfg.BlobBackend == "minio" {
		return blob.NewMinioStore(blob.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
	}
	return blob.NewDiskStore(cfg.BlobDataDir)
}
