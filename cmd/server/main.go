package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "senpai_store/internal/domain/admin"
	_ "senpai_store/internal/domain/catalog"
	_ "senpai_store/internal/domain/common"
	_ "senpai_store/internal/domain/order"
	_ "senpai_store/internal/domain/payment"

	"senpai_store/internal/pkg/config"
	"senpai_store/internal/pkg/mailer"
	"senpai_store/internal/pkg/middleware"
	"senpai_store/internal/pkg/registry"
	"senpai_store/internal/pkg/uploader"
	"senpai_store/internal/pkg/worker"
	"senpai_store/pkg/database"
	"senpai_store/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	gin.SetMode(config.GlobalConfig.Server.Mode)

	db := database.InitDatabase()
	rdb := database.InitRedis()

	// Optional integrations: the store runs without mail or uploads, it
	// just logs what it skipped.
	if config.GlobalConfig.Mail.SendGridKey != "" {
		m, err := mailer.NewSendGridMailer(config.GlobalConfig.Mail)
		if err != nil {
			log.Printf("Warning: mailer disabled: %v", err)
		} else {
			worker.GlobalPool = worker.NewWorkerPool(m, 3, 500)
			worker.GlobalPool.Start()
		}
	} else {
		log.Println("Mail not configured, confirmation emails disabled")
	}

	if config.GlobalConfig.OSS.BucketName != "" {
		if err := uploader.InitUploader(); err != nil {
			log.Printf("Warning: uploader disabled: %v", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.MetricsMiddleware())

	ctx := &registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Router: r,
	}
	if err := registry.InitModules(ctx); err != nil {
		log.Fatalf("Failed to initialize modules: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on :%s", config.GlobalConfig.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server exited")
}
