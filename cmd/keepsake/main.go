package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"keepsake/internal/auth"
	"keepsake/internal/config"
	"keepsake/internal/db"
	httpx "keepsake/internal/http"
	"keepsake/internal/jobs"
	"keepsake/internal/upload"
)

func main() {
	cfg, _ := config.Load()

	// A missing or broken database is not fatal: reads degrade to empty
	// results and writes report the condition to the caller.
	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Printf("database unavailable, running degraded: %v\n", err)
		gdb = nil
	}
	if gdb != nil {
		if err := db.AutoMigrateAndIndexes(gdb); err != nil {
			log.Fatal(err)
		}
	}

	var store upload.Store
	switch cfg.MediaProvider {
	case "s3":
		if cfg.S3Bucket != "" {
			s3Store, err := upload.NewS3Store(context.Background(), upload.S3Config{
				Endpoint:     cfg.S3Endpoint,
				Region:       cfg.S3Region,
				Bucket:       cfg.S3Bucket,
				AccessKey:    cfg.S3AccessKey,
				SecretKey:    cfg.S3SecretKey,
				UsePathStyle: cfg.S3UsePathStyle,
			})
			if err != nil {
				log.Fatal(err)
			}
			store = s3Store
		}
	default:
		if cfg.CloudinaryCloudName != "" {
			cldStore, err := upload.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
			if err != nil {
				log.Fatal(err)
			}
			store = cldStore
		}
	}
	if store == nil {
		log.Println("no media provider configured, uploads disabled")
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	r := httpx.NewRouter(cfg, gdb, jwtSvc, store)

	ctx, cancel := context.WithCancel(context.Background())

	if gdb != nil {
		jobsRepo := &jobs.Repo{DB: gdb}
		worker := &jobs.Worker{ID: "worker-1", Repo: jobsRepo, DB: gdb}
		go worker.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
