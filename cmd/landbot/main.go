package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"civmcbot/internal/config"
	"civmcbot/internal/publish"
	"civmcbot/internal/publish/archive"
	"civmcbot/internal/publish/runlog"
	"civmcbot/internal/registry"
	"civmcbot/internal/wiki"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to bot.yaml (empty for defaults)")
		root       = flag.String("root", "", "registry root directory (overrides config)")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
		dryRun     = flag.Bool("dry_run", false, "render and preview without editing the wiki")
		disableDB  = flag.Bool("disable_db", false, "disable the publish run ledger")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[landbot] ", log.LstdFlags|log.Lmicroseconds)

	_ = godotenv.Load(".env")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if strings.TrimSpace(*root) != "" {
		cfg.RegistryRoot = *root
	}
	if strings.TrimSpace(*dataDir) != "" {
		cfg.DataDir = *dataDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	site, err := wiki.New(cfg.Site, cfg.UserAgent)
	if err != nil {
		logger.Fatalf("wiki client: %v", err)
	}
	if !*dryRun {
		creds, err := config.CredentialsFromEnv()
		if err != nil {
			logger.Fatalf("credentials: %v", err)
		}
		logger.Printf("logging in to %s", cfg.Site)
		if err := site.Login(ctx, creds.Username, creds.Password); err != nil {
			logger.Fatalf("login: %v", err)
		}
		logger.Printf("logged in to %s", cfg.Site)
	}

	files, err := registry.Scan(cfg.RegistryRoot, logger)
	if err != nil {
		logger.Fatalf("scan %s: %v", cfg.RegistryRoot, err)
	}
	if len(files) == 0 {
		logger.Printf("no registries under %s, nothing to do", cfg.RegistryRoot)
		return
	}

	registries := make([]*registry.Registry, 0, len(files))
	for _, f := range files {
		r, err := registry.Load(f)
		if err != nil {
			logger.Fatalf("load registry %s: %v", f.RegistryName(), err)
		}
		logger.Printf("parsed %s (%d entries)", f.DataFile, len(r.Entries))
		registries = append(registries, r)
	}

	p := &publish.Publisher{
		Site:       site,
		Logger:     logger,
		PageSuffix: cfg.PageSuffix,
		RunID:      uuid.NewString(),
		DryRun:     *dryRun,
	}
	if *dryRun {
		p.PreviewDir = filepath.Join(cfg.DataDir, "preview")
	}

	var rl *runlog.Log
	if !*disableDB {
		rl, err = runlog.Open(filepath.Join(cfg.DataDir, "runlog.db"))
		if err != nil {
			logger.Fatalf("open runlog: %v", err)
		}
		defer rl.Close()
		p.RunLog = rl
	}
	if !*dryRun {
		aw := archive.NewWriter(filepath.Join(cfg.DataDir, "archives"))
		defer aw.Close()
		p.Archive = aw
	}

	started := time.Now()
	if rl != nil {
		if err := rl.BeginRun(p.RunID, started); err != nil {
			logger.Printf("runlog begin: %v", err)
		}
	}

	stats := p.PublishAll(ctx, registries)

	if rl != nil {
		if err := rl.FinishRun(p.RunID, time.Now(), stats.Registries, stats.Edits, stats.Uploads); err != nil {
			logger.Printf("runlog finish: %v", err)
		}
	}
	logger.Printf("run %s done: %d registries, %d edits, %d uploads, %d failed (%.1fs)",
		p.RunID, stats.Registries, stats.Edits, stats.Uploads, stats.Failed, time.Since(started).Seconds())
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
