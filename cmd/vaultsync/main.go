package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/sync-vault/internal/adapter"
	"github.com/MKhiriev/sync-vault/internal/config"
	"github.com/MKhiriev/sync-vault/internal/logger"
	"github.com/MKhiriev/sync-vault/internal/store"
	"github.com/MKhiriev/sync-vault/internal/workers"
	"github.com/MKhiriev/sync-vault/vault"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewCLILogger("vaultsync")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	offlineStore, err := buildStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create offline store")
	}
	if closer, ok := offlineStore.(io.Closer); ok {
		defer closer.Close()
	}

	transport := adapter.NewHTTPTransport(adapter.Config{
		Timeout:   cfg.Adapter.Timeout,
		AuthToken: cfg.Adapter.AuthToken,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []vault.Option{
		vault.WithIDAttribute(cfg.Vault.IDAttribute),
		vault.WithOffline(cfg.Vault.Offline),
		vault.WithSubCollections(cfg.Vault.SubCollections...),
		vault.WithTransport(transport),
		vault.WithLogger(log),
	}
	if offlineStore != nil {
		opts = append(opts, vault.WithOfflineStore(offlineStore))
	}

	v, err := vault.New(ctx, cfg.Vault.Name, vault.URLs{
		List:   cfg.Endpoints.List,
		Create: cfg.Endpoints.Create,
		Update: cfg.Endpoints.Update,
		Delete: cfg.Endpoints.Delete,
	}, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("create vault")
	}
	log.Info().Str("vault", v.Name()).Int("records", v.Size()).Int("dirty", v.DirtyCount()).Msg("vault ready")

	syncJob := workers.NewSyncJob(v, cfg.Sync.Interval, log)
	if cfg.Sync.Interval > 0 {
		workers.New(syncJob).Run()
		defer syncJob.Stop()
	}

	<-ctx.Done()

	// Best-effort flush on teardown, bounded so a dead disk cannot hang
	// shutdown.
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.Close(flushCtx); err != nil {
		log.Error().Err(err).Msg("flush on shutdown failed")
	} else {
		log.Info().Msg("vault flushed, shutting down")
	}
}

func buildStore(cfg *config.StructuredConfig) (vault.OfflineStore, error) {
	if !cfg.Vault.Offline {
		return nil, nil
	}
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return store.NewFileStore(cfg.Storage.Path)
	case config.DriverSQLite:
		return store.NewSQLiteStore(cfg.Storage.Path)
	default:
		return store.NewMemoryStore(), nil
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
