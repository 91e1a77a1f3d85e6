package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"

	"github.com/eyeway/uxlens/internal/application"
	appanalysis "github.com/eyeway/uxlens/internal/application/analysis"
	appauth "github.com/eyeway/uxlens/internal/application/auth"
	"github.com/eyeway/uxlens/internal/config"
	domain "github.com/eyeway/uxlens/internal/domain/analysis"
	"github.com/eyeway/uxlens/internal/domain/analysisfaults"
	domusers "github.com/eyeway/uxlens/internal/domain/users"
	aiopenai "github.com/eyeway/uxlens/internal/infra/ai/openai"
	"github.com/eyeway/uxlens/internal/infra/ai/prompt"
	mysqlp "github.com/eyeway/uxlens/internal/infra/db/mysql"
	postgresp "github.com/eyeway/uxlens/internal/infra/db/postgres"
	"github.com/eyeway/uxlens/internal/infra/httpserver"
	"github.com/eyeway/uxlens/internal/infra/storage"
	"github.com/eyeway/uxlens/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.WithError(err).Fatal("config load error")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config validation error")
	}

	ctx := context.Background()

	// connect database (driver dari config)
	var (
		db           *sql.DB
		analysisRepo domain.Repository
		userRepo     domusers.Repository
		faultRepo    analysisfaults.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.WithError(err).Fatal("postgres connect error")
		}
		analysisRepo = postgresp.NewAnalysisRepository(db)
		userRepo = postgresp.NewUserRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.WithError(err).Fatal("mysql connect error")
		}
		analysisRepo = mysqlp.NewAnalysisRepository(db)
		userRepo = mysqlp.NewUserRepository(db)
		faultRepo = mysqlp.NewFaultRepository(db)
	}
	defer db.Close()

	// init image store
	var images domain.ImageStore
	if cfg.Storage.Backend == "minio" {
		images, err = storage.NewMinio(ctx,
			cfg.Storage.Minio.Endpoint,
			cfg.Storage.Minio.Region,
			cfg.Storage.Minio.BucketName,
			cfg.Storage.Minio.AccessKey,
			cfg.Storage.Minio.SecretKey,
			cfg.Storage.Minio.UseSSL,
		)
		if err != nil {
			log.WithError(err).Fatal("minio init error")
		}
	} else {
		images, err = storage.NewDisk(cfg.Storage.Dir)
		if err != nil {
			log.WithError(err).Fatal("upload dir init error")
		}
	}

	// load prompt template (fatal kalau hilang)
	tpl, err := prompt.Load(cfg.AI.PromptPath)
	if err != nil {
		log.WithError(err).Fatal("prompt template error")
	}

	// init AI client (fatal tanpa credential)
	aiClient, err := aiopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model, images)
	if err != nil {
		log.WithError(err).Fatal("ai client error")
	}

	// init services
	analysisSvc := &appanalysis.Service{
		Repo:   analysisRepo,
		Faults: faultRepo,
		Images: images,
		AI:     aiClient,
		Prompt: tpl,
		Clock:  application.SystemClock{},
	}
	authSvc := &appauth.Service{
		Repo:     userRepo,
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		Clock:    application.SystemClock{},
	}

	// init router
	handler := httpserver.NewRouter(analysisSvc, authSvc, images, httpserver.Options{
		CORSOrigins: cfg.CORS.Origins,
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Infof("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.WithError(err).Error("shutdown error")
	}

	// drain in-flight analyses so their terminal writes land
	analysisSvc.Wait()
}
