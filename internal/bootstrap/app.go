package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"meddoc-backend/internal/audit"
	"meddoc-backend/internal/compliance"
	"meddoc-backend/internal/documents"
	"meddoc-backend/internal/llm"
	"meddoc-backend/internal/llm/provider"
	"meddoc-backend/internal/services/health"
	"meddoc-backend/internal/sessions"
	"meddoc-backend/internal/shared/config"
	"meddoc-backend/internal/shared/server"
	"meddoc-backend/internal/shared/storage/db"
	"meddoc-backend/internal/shared/storage/object"
	localstore "meddoc-backend/internal/shared/storage/object/local"
	s3store "meddoc-backend/internal/shared/storage/object/s3"
	"meddoc-backend/internal/validations"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.ObjectStore
	LLM                llm.Client
	Sessions           *sessions.Manager
	AuditRecorder      *audit.Recorder
	DocumentsService   *documents.Service
	ValidationsService *validations.Service
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildWithClient(cfg, nil)
}

// BuildWithClient is Build with an explicit LLM client; nil selects the
// configured provider.
func BuildWithClient(cfg config.Config, client llm.Client) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if client == nil {
		client, err = buildLLM(cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    client,
	}
	buildServices(app)
	return app, nil
}

// StartBackground launches the session sweeper; it stops with ctx.
func (a *App) StartBackground(ctx context.Context) {
	go a.Sessions.Run(ctx, time.Minute)
}

func buildServices(app *App) {
	cfg := app.Config

	var auditStore audit.Store
	if app.DB != nil {
		auditStore = audit.NewPGStore(app.DB)
	} else {
		auditStore = audit.NewMemoryStore()
	}
	app.AuditRecorder = audit.NewRecorder(auditStore)

	app.DocumentsService = &documents.Service{
		Store: app.Store,
		Repo:  documents.NewMemoryRepo(),
	}
	app.ValidationsService = &validations.Service{
		Repo:      validations.NewMemoryRepo(),
		Docs:      app.DocumentsService,
		Validator: compliance.NewValidator(app.LLM, cfg.MaxDocumentChars),
		Audit:     app.AuditRecorder,
		Timeout:   time.Duration(cfg.ValidationTimeout) * time.Second,
	}
	app.Sessions = sessions.NewManager(
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
		nil,
		app.ValidationsService,
		app.DocumentsService,
		app.AuditRecorder,
	)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Health:            health.NewService(pinger, llm.ProviderName(app.LLM), llm.ModelName(app.LLM)),
		Sessions:          app.Sessions,
		DocumentHandler:   documents.NewHandler(app.DocumentsService, cfg.MaxUploadBytes),
		ValidationHandler: validations.NewHandler(app.ValidationsService),
		SessionHandler:    sessions.NewHandler(app.Sessions),
		AuditHandler:      audit.NewHandler(app.AuditRecorder),
	})
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; audit log kept in memory")
		return nil, nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; audit log kept in memory: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	client, err := provider.New(cfg)
	if err == nil {
		return client, nil
	}
	if isDevLike(cfg.Env) {
		log.Printf("bootstrap: %v; validations will fail until a provider is configured", err)
		return llm.PlaceholderClient{}, nil
	}
	return nil, err
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
