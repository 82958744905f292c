package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relist/internal/api"
	"relist/internal/config"
	"relist/internal/db"
	"relist/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("relist", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", cfg.DBPath, "")
	fs.StringVar(&dbPath, "d", cfg.DBPath, "")

	var addr string
	fs.StringVar(&addr, "addr", cfg.Addr, "")
	fs.StringVar(&addr, "a", cfg.Addr, "")

	var logPath string
	fs.StringVar(&logPath, "log", cfg.LogPath, "")
	fs.StringVar(&logPath, "l", cfg.LogPath, "")

	var exportDir string
	fs.StringVar(&exportDir, "export", "", "")

	var importDir string
	fs.StringVar(&importDir, "import", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: relist [flags]

Flags:
  -d, -db <path>          SQLite database path (default: relist.db)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -export <dir>           write users/categories/items as JSON files and exit
  -import <dir>           load JSON files into an empty database and exit
  -h, -help               show this help and exit

Flag defaults can also be set via RELIST_DB, RELIST_ADDR and RELIST_LOG
environment variables (a .env file is read if present).
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	firstRun := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		firstRun = true
	}

	// Open database and ensure the schema exists (idempotent).
	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", dbPath)

	ctx := context.Background()

	// One-shot export/import modes.
	if exportDir != "" {
		if err := runExport(ctx, database, exportDir); err != nil {
			slog.Error("export failed", "error", err)
			os.Exit(1)
		}
		slog.Info("export complete", "dir", exportDir)
		return
	}
	if importDir != "" {
		if err := runImport(ctx, database, importDir); err != nil {
			slog.Error("import failed", "error", err)
			os.Exit(1)
		}
		slog.Info("import complete", "dir", importDir)
		return
	}

	// Seed the built-in admin account and the starter categories. Both are
	// no-ops once the database has data.
	if err := store.SeedAdmin(ctx, database); err != nil {
		slog.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}
	if err := store.SeedDefaultCategories(ctx, database); err != nil {
		slog.Error("failed to seed default categories", "error", err)
		os.Exit(1)
	}

	if firstRun {
		printInitResult(dbPath)
		fmt.Println()
	}

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, jwtSecret))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// runExport dumps the users, categories and items collections to JSON files.
func runExport(ctx context.Context, database *sql.DB, dir string) error {
	snapshot, err := store.ExportCollections(ctx, database)
	if err != nil {
		return err
	}
	return snapshot.WriteDir(dir)
}

// runImport loads JSON files into a freshly created database. Missing files
// are treated as empty collections.
func runImport(ctx context.Context, database *sql.DB, dir string) error {
	return store.ImportCollections(ctx, database, store.ReadSnapshotDir(dir))
}

// printInitResult prints the first-run setup summary to stdout.
func printInitResult(dbPath string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized and starter categories seeded.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", store.SeedAdminUsername)
	fmt.Printf("  Password: %s\n", store.SeedAdminPassword)
	fmt.Println()
	fmt.Println("These are well-known defaults, do not expose the server publicly.")
}
