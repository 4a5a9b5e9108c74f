package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"billdex/internal/config"
	"billdex/internal/handler"
	"billdex/internal/ocr/vision"
	"billdex/internal/pdfimage"
	"billdex/internal/repository/postgres"
	"billdex/internal/router"
	"billdex/internal/service"
	"billdex/internal/storage/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := postgres.NewDB(cfg.DB)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer db.Close()

	storage, err := s3.NewS3Client(cfg.S3)
	if err != nil {
		log.Fatalf("creating object storage: %v", err)
	}

	fileRepo := postgres.NewFileMetaRepository(db)
	billRepo := postgres.NewBillIndexRepository(db)
	jobRepo := postgres.NewExtractionJobRepository(db)
	flagRepo := postgres.NewFeatureFlagRepository(db)
	quotaRepo, err := postgres.NewQuotaRepository(db, cfg.Quota)
	if err != nil {
		log.Fatalf("creating quota repository: %v", err)
	}

	flagSvc := service.NewFlagService(flagRepo)
	quotaSvc := service.NewQuotaService(quotaRepo)
	billSvc := service.NewBillIndexService(billRepo)
	fileSvc := service.NewFileService(fileRepo, billSvc, storage, cfg.S3)
	extractionSvc := service.NewExtractionService(
		fileRepo,
		jobRepo,
		flagSvc,
		quotaSvc,
		billSvc,
		storage,
		vision.NewClient(cfg.OCR),
		pdfimage.NewRasterizer(cfg.Pipeline.MaxPages),
		cfg.Pipeline,
	)

	engine := router.Setup(cfg, router.Handlers{
		Health:     handler.NewHealthHandler(db),
		Files:      handler.NewFileHandler(fileSvc),
		Extraction: handler.NewExtractionHandler(extractionSvc),
		Bills:      handler.NewBillHandler(billSvc),
		Admin:      handler.NewAdminHandler(flagSvc, quotaSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
