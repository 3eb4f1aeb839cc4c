package cmd

import (
	"context"
	"fmt"
	"time"

	"netsync/core/config"
	"netsync/core/database"
	"netsync/core/logger"
	"netsync/core/storage"
	"netsync/feature/network/facts"
	"netsync/feature/network/inventory"
	syncFeature "netsync/feature/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps bundles the dependencies shared by the commands.
type deps struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  *inventory.Store
	client storage.Client
}

// setup loads the configuration, builds the logger and connects to the inventory database.
func setup() (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &deps{
		cfg:    cfg,
		logger: l,
		db:     db,
		store:  inventory.NewStore(db, l),
	}, nil
}

// connectStorage opens the object storage client and makes sure the bucket exists.
func (r *deps) connectStorage(ctx context.Context) error {
	client, err := storage.NewClient(r.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Storage.TimeoutSeconds)*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx, client, r.cfg.Storage.Bucket, r.cfg.Storage.Region); err != nil {
		return err
	}

	r.client = client
	return nil
}

// collector picks the fact source: a local document when configured, object storage otherwise.
func (r *deps) collector() facts.Collector {
	if r.cfg.Sync.FactsFile != "" {
		return facts.FileCollector{Path: r.cfg.Sync.FactsFile}
	}
	if r.client == nil {
		return nil
	}
	return facts.ObjectCollector{
		Client: r.client,
		Bucket: r.cfg.Storage.Bucket,
		Prefix: r.cfg.Sync.FactsPrefix,
		Logger: r.logger,
	}
}

// service builds the sync service. Reports are archived only when storage is connected.
func (r *deps) service() *syncFeature.Service {
	var archive *syncFeature.Archive
	if r.client != nil {
		archive = syncFeature.NewArchive(r.client, r.cfg.Storage.Bucket, r.cfg.Sync.ReportPrefix, r.cfg.Sync.ReportRetention, r.logger)
	}
	return syncFeature.NewService(r.cfg.Sync, r.collector(), r.store, archive, r.logger)
}

func (r *deps) close() {
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.logger.Sync()
}
