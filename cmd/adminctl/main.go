package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/infrastructure/auth"
	"github.com/billadmin/backend/internal/infrastructure/config"
	"github.com/billadmin/backend/internal/infrastructure/dataset"
	"github.com/billadmin/backend/internal/infrastructure/logger"
	"github.com/billadmin/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

func main() {
	var (
		seedFile string
		logLevel string
		name     string
	)

	flag.StringVar(&seedFile, "data", "", "Path to a local seed file (default: the configured data source)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&name, "name", "", "Display name carried in issued tokens")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if seedFile != "" {
		cfg.Data.Source = "file"
		cfg.Data.SeedFile = seedFile
	}

	switch command {
	case "token":
		if len(args) < 3 {
			log.Fatal("Usage: adminctl token <user-id> <role>")
		}
		issueToken(log, cfg, args[1], args[2], name)

	case "check":
		src, err := storage.NewSnapshotSource(cfg.Data, log.Named("storage"))
		if err != nil {
			log.Fatal("Failed to create data source", zap.Error(err))
		}
		checkDataset(log, src, billing.NewCalculator(cfg.Billing.LateFeeRate))

	case "publish":
		if len(args) < 2 {
			log.Fatal("Usage: adminctl publish <seed-file>")
		}
		publishSnapshot(log, cfg.Data.Storage, args[1])

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func issueToken(log *zap.Logger, cfg *config.Config, userID, role, name string) {
	r, err := access.ParseRole(role)
	if err != nil {
		log.Fatal("Unknown role", zap.String("role", role), zap.Strings("known", []string{
			access.RoleUser.String(), access.RoleAdmin.String(), access.RoleSuperAdmin.String(),
		}))
	}

	token, err := auth.NewJWTService(cfg.JWT).GenerateAccessToken(auth.GenerateTokenInput{
		UserID: userID,
		Role:   r,
		Name:   name,
	})
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}

	log.Info("Token issued",
		zap.String("user_id", userID),
		zap.String("role", r.String()),
		zap.Time("expires_at", token.ExpiresAt),
	)
	fmt.Println(token.Token)
}

// checkDataset loads the snapshot and reports every invoice the billing
// calculations would skip
func checkDataset(log *zap.Logger, src dataset.Source, calc billing.Calculator) {
	data, err := dataset.Open(context.Background(), src, log)
	if err != nil {
		log.Fatal("Failed to load dataset", zap.String("location", src.Location()), zap.Error(err))
	}

	snap, err := data.Snapshot(context.Background())
	if err != nil {
		log.Fatal("Failed to read invoices", zap.Error(err))
	}

	now := time.Now()
	malformed := 0
	for _, inv := range snap.Invoices {
		if err := inv.Validate(now); err != nil {
			malformed++
			log.Warn("Malformed invoice", zap.String("invoice_id", inv.ID), zap.Error(err))
		}
	}
	_, report := calc.OverdueAlerts(snap.Invoices, now)

	counts := data.Counts()
	fmt.Printf("accounts=%d profiles=%d plans=%d services=%d invoices=%d malformed=%d skipped=%d\n",
		counts.Accounts, counts.Profiles, counts.Plans, counts.Services, counts.Invoices,
		malformed, report.Count())
	if malformed > 0 {
		os.Exit(2)
	}
}

// publishSnapshot uploads a seed file to the configured bucket once it
// loads cleanly
func publishSnapshot(log *zap.Logger, storageCfg config.StorageConfig, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", path), zap.Error(err))
	}
	if err := dataset.New(nil, log).Load(bytes.NewReader(raw)); err != nil {
		log.Fatal("Refusing to publish an invalid snapshot", zap.String("path", path), zap.Error(err))
	}

	s3Storage, err := storage.NewS3ObjectStorage(&storageCfg, storage.WithLogger(log.Named("storage")))
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare bucket", zap.Error(err))
	}
	if err := s3Storage.Upload(ctx, raw); err != nil {
		log.Fatal("Failed to publish snapshot", zap.Error(err))
	}
	fmt.Println(s3Storage.Location())
}

func printUsage() {
	fmt.Println(`Billing admin tool

Usage:
  adminctl [flags] <command> [arguments]

Commands:
  token <user-id> <role>  Issue an access token (roles: user, admin, super_admin)
  check                   Load the dataset and report malformed invoices
  publish <seed-file>     Validate a seed file and upload it to the snapshot bucket

Flags:
  -data string            Read a local seed file instead of the configured source
  -name string            Display name carried in issued tokens
  -log-level string       Log level: debug, info, warn, error (default: info)

Environment Variables:
  BILLADMIN_JWT_SECRET, BILLADMIN_JWT_ISSUER, BILLADMIN_DATA_SOURCE,
  BILLADMIN_DATA_SEED_FILE, BILLADMIN_DATA_STORAGE_BUCKET, BILLADMIN_DATA_STORAGE_KEY

Examples:
  # Issue an admin token for local testing
  adminctl token admin-1 admin

  # Validate a seed file before deploying it
  adminctl -data data/seed.json check

  # Publish a new snapshot for servers using the s3 source
  adminctl publish data/seed.json`)
}
