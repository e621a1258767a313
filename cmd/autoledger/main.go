// AutoLedger is the sync CLI for the vehicle expense ledger: it backs up the
// local SQLite ledger to a per-user Cloud Firestore namespace, restores
// missing cloud data back, runs full bidirectional syncs, and can wipe the
// cloud replica.
//
// Usage:
//
//	autoledger sync [--config <path>]      # push then pull
//	autoledger backup [--config <path>]    # push only
//	autoledger restore [--config <path>]   # pull only
//	autoledger wipe [--config <path>]      # delete all cloud data (asks first)
//	autoledger status                      # show config, session, and sync state
//	autoledger version                     # print version
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/autoledger/autoledger/internal/auth"
	"github.com/autoledger/autoledger/internal/config"
	"github.com/autoledger/autoledger/internal/local"
	"github.com/autoledger/autoledger/internal/remote"
	"github.com/autoledger/autoledger/internal/state"
	syncp "github.com/autoledger/autoledger/internal/sync"
	"github.com/autoledger/autoledger/internal/telemetry"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// run dispatches to the appropriate subcommand.
func run() error {
	if len(os.Args) < 2 {
		return printUsage()
	}

	switch cmd := os.Args[1]; cmd {
	case "sync", "backup", "restore", "wipe":
		return runOperation(cmd, os.Args[2:])
	case "status":
		return runStatus()
	case "version":
		fmt.Println("autoledger", version)
		return nil
	default:
		return fmt.Errorf("unknown command %q — run 'autoledger' for usage", cmd)
	}
}

// printUsage shows help and hints at the config file if none exists.
func printUsage() error {
	cfgPath, _ := config.DefaultPath()
	_, cfgErr := os.Stat(cfgPath)

	fmt.Fprintln(os.Stderr, "AutoLedger — sync the vehicle expense ledger with the cloud")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  autoledger sync [--config ...]     Push local data, then pull missing cloud data")
	fmt.Fprintln(os.Stderr, "  autoledger backup [--config ...]   Push local data to the cloud")
	fmt.Fprintln(os.Stderr, "  autoledger restore [--config ...]  Pull missing cloud data locally")
	fmt.Fprintln(os.Stderr, "  autoledger wipe [--config ...]     Delete all cloud data for this account")
	fmt.Fprintln(os.Stderr, "  autoledger status                  Show config, session, and sync state")
	fmt.Fprintln(os.Stderr, "  autoledger version                 Print version")
	fmt.Fprintln(os.Stderr, "")

	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "No config file found at %s.\n", cfgPath)
	}

	os.Exit(1)
	return nil // unreachable
}

// runOperation wires up the stores and runs one sync operation.
func runOperation(op string, args []string) error {
	fs := flag.NewFlagSet(op, flag.ExitOnError)
	defaultCfg, _ := config.DefaultPath()
	cfgPath := fs.String("config", defaultCfg, "path to config.yaml")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	yes := fs.Bool("yes", false, "skip the confirmation prompt (wipe only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// --- Logger --------------------------------------------------------------

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// --- Config --------------------------------------------------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("loading config from %q: %w", *cfgPath, err)
	}
	logger.Info("config loaded", "project", cfg.ProjectID, "database", cfg.DatabasePath)

	// --- Telemetry (optional) ------------------------------------------------

	if cfg.Telemetry != nil {
		telCfg := telemetry.Config{
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			Insecure:     cfg.Telemetry.Insecure,
			ServiceName:  cfg.Telemetry.ServiceName,
			Headers:      cfg.Telemetry.Headers,
		}
		shutdownTel, err := telemetry.Setup(context.Background(), telCfg)
		if err != nil {
			logger.Error("telemetry setup failed, continuing without telemetry", "error", err)
		} else {
			logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.OTLPEndpoint)
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTel(flushCtx); err != nil {
					logger.Error("telemetry shutdown error", "error", err)
				}
			}()
		}
	}

	// --- Wipe confirmation ---------------------------------------------------

	if op == "wipe" && !*yes {
		fmt.Fprint(os.Stderr, "This permanently deletes ALL cloud data for the signed-in account. Continue? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// --- Stores --------------------------------------------------------------

	ledger, err := local.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening ledger database: %w", err)
	}
	defer func() {
		if closeErr := ledger.Close(); closeErr != nil {
			logger.Error("closing ledger database", "error", closeErr)
		}
	}()

	meta, err := state.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer func() {
		if closeErr := meta.Close(); closeErr != nil {
			logger.Error("closing state database", "error", closeErr)
		}
	}()

	cloud, err := remote.NewStore(ctx, cfg.ProjectID, cfg.CredentialsFile, logger)
	if err != nil {
		return fmt.Errorf("connecting to Firestore: %w", err)
	}
	defer func() {
		if closeErr := cloud.Close(); closeErr != nil {
			logger.Error("closing Firestore client", "error", closeErr)
		}
	}()

	session := &auth.FileSession{Path: cfg.SessionFile}

	// --- Engine --------------------------------------------------------------

	engine := syncp.NewEngine(ledger, cloud, session, meta, logger)
	if err := engine.LoadState(ctx); err != nil {
		return fmt.Errorf("loading sync state: %w", err)
	}

	var opErr error
	switch op {
	case "sync":
		opErr = engine.Sync(ctx)
	case "backup":
		opErr = engine.Backup(ctx)
	case "restore":
		opErr = engine.Restore(ctx)
	case "wipe":
		opErr = engine.WipeRemote(ctx)
	}

	status := engine.Status()
	if opErr != nil {
		if errors.Is(opErr, syncp.ErrNotSignedIn) && status.Error != "" {
			return errors.New(status.Error)
		}
		return opErr
	}

	if status.LastSyncDate != nil {
		fmt.Printf("✓ %s complete (last sync: %s)\n", op, status.LastSyncDate.Local().Format(time.RFC1123))
	} else {
		fmt.Printf("✓ %s complete\n", op)
	}
	return nil
}

// runStatus prints the current configuration and sync state.
func runStatus() error {
	cfgPath, _ := config.DefaultPath()

	fmt.Println("AutoLedger Status")
	fmt.Println("─────────────────")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config:     not usable (%v)\n", err)
		return nil
	}
	fmt.Printf("  Config:     %s ✓\n", cfgPath)
	fmt.Printf("  Project:    %s\n", cfg.ProjectID)

	// Session.
	session := &auth.FileSession{Path: cfg.SessionFile}
	if uid, ok, err := session.CurrentUID(); err != nil {
		fmt.Printf("  Session:    unreadable (%v)\n", err)
	} else if ok {
		fmt.Printf("  Session:    signed in (%s)\n", uid)
	} else {
		fmt.Println("  Session:    signed out")
	}

	// Ledger DB.
	if info, err := os.Stat(cfg.DatabasePath); err == nil {
		fmt.Printf("  Ledger DB:  %s (%s)\n", cfg.DatabasePath, humanSize(info.Size()))
	} else {
		fmt.Println("  Ledger DB:  not found")
	}

	// Last sync.
	meta, err := state.Open(cfg.StatePath)
	if err != nil {
		fmt.Printf("  Last sync:  unknown (%v)\n", err)
		return nil
	}
	defer func() { _ = meta.Close() }()

	if t, ok, err := meta.LastSyncDate(context.Background()); err != nil {
		fmt.Printf("  Last sync:  unknown (%v)\n", err)
	} else if ok {
		fmt.Printf("  Last sync:  %s\n", t.Local().Format(time.RFC1123))
	} else {
		fmt.Println("  Last sync:  never")
	}

	return nil
}

// humanSize returns a human-readable file size string.
func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
