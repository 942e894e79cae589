package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "docsummary-backend/internal/auth"
	"docsummary-backend/internal/documents"
	"docsummary-backend/internal/llm"
	openai "docsummary-backend/internal/llm/openai"
	"docsummary-backend/internal/shared/config"
	"docsummary-backend/internal/shared/server"
	"docsummary-backend/internal/shared/storage/blob"
	localstore "docsummary-backend/internal/shared/storage/blob/local"
	s3store "docsummary-backend/internal/shared/storage/blob/s3"
	"docsummary-backend/internal/summaries"
	"docsummary-backend/internal/users"
	"docsummary-backend/internal/web"

	"docsummary-backend/internal/shared/storage/db"
)

// App holds the wired application dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Blob            blob.Store
	UsersRepo       users.Repo
	DocumentsRepo   documents.Repo
	UsersService    *users.Service
	SummaryService  *summaries.Service
	Summarizer      *summaries.Summarizer
	WebHandler      *web.Handler
	SummaryHandler  *summaries.Handler
	DocumentHandler *documents.Handler
	GoogleAuth      *googleauth.GoogleService
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildBlob(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var userRepo users.Repo
	var docRepo documents.Repo
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	usersSvc := users.NewService(userRepo)
	summarizer := summaries.NewSummarizer(llmClient, cfg.SummaryTimeout)
	summarySvc := summaries.NewService(usersSvc, docRepo, store, summarizer)

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Blob:            store,
		UsersRepo:       userRepo,
		DocumentsRepo:   docRepo,
		UsersService:    usersSvc,
		SummaryService:  summarySvc,
		Summarizer:      summarizer,
		WebHandler:      web.NewHandler(usersSvc, docRepo),
		SummaryHandler:  summaries.NewHandler(summarySvc),
		DocumentHandler: documents.NewHandler(usersSvc, docRepo, store),
		GoogleAuth: googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			usersSvc,
		),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		WebHandler:      app.WebHandler,
		SummaryHandler:  app.SummaryHandler,
		DocumentHandler: app.DocumentHandler,
		GoogleAuth:      app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildBlob(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "openai" && strings.TrimSpace(cfg.LLMModel) != "" {
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
	}
	return llm.PlaceholderClient{}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
