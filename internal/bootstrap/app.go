package bootstrap

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/extract"
	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/server"
	"docvault-backend/internal/shared/storage/object"
	localstore "docvault-backend/internal/shared/storage/object/local"
	memorystore "docvault-backend/internal/shared/storage/object/memory"
	s3store "docvault-backend/internal/shared/storage/object/s3"
	"docvault-backend/internal/uploads"
)

// App holds the shared dependencies built once at process start.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Store         object.Store
	Extractor     extract.Extractor
	UploadService *uploads.Service
	UploadHandler *uploads.Handler
}

// Build prepares dependencies and the router from configuration.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	extractor := extract.NewPDFExtractor()
	svc := &uploads.Service{Store: store, Extractor: extractor}
	handler := uploads.NewHandler(svc, cfg.MaxUploadBytes)

	app := &App{
		Config:        cfg,
		Store:         store,
		Extractor:     extractor,
		UploadService: svc,
		UploadHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{UploadHandler: handler})
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Endpoint)
	case "memory":
		return memorystore.New(), nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
