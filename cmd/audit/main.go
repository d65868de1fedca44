package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"backend-trackaudit/internal/audit"
	"backend-trackaudit/internal/auth"
	"backend-trackaudit/internal/config"
	"backend-trackaudit/internal/db"
	"backend-trackaudit/internal/report"
	"backend-trackaudit/internal/storage"
	"backend-trackaudit/internal/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const usage = `usage:
  audit               audit every metadata object in the configured store
  audit token NAME    print an operator token for the API
`

var mainDepsProvider = defaultDeps
var exit = os.Exit

func main() {
	exit(run(mainDepsProvider(), os.Args[1:], os.Stdout, os.Stderr))
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
	}
}

func run(deps mainDeps, args []string, stdout, stderr io.Writer) int {
	cfg := deps.loadConfig()

	switch {
	case len(args) == 0:
	case len(args) == 2 && args[0] == "token":
		token, err := auth.SignToken(cfg.JWTSecret, args[1], auth.OperatorTokenTTL)
		if err != nil {
			fmt.Fprintf(stderr, "sign token: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, token)
		return 0
	default:
		fmt.Fprint(stderr, usage)
		return 2
	}

	var pg *pgxpool.Pool
	if cfg.StoreBackend == "postgres" {
		var err error
		if pg, err = deps.connectPostgres(cfg); err != nil {
			fmt.Fprintf(stderr, "postgres connection failed: %v\n", err)
			return 1
		}
		defer pg.Close()
	}
	var rdb *redis.Client
	if cfg.StoreBackend == "redis" {
		if rdb = deps.connectRedis(cfg); rdb != nil {
			defer rdb.Close()
		}
	}

	store, err := storage.Open(cfg, pg, rdb)
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditor := audit.NewAuditor(store, validator.New(cfg.Thresholds()), cfg.Track(), nil)
	summary, err := auditor.Run(ctx, audit.Options{})
	if err != nil {
		log.Printf("audit %s stopped: %v", summary.RunID, err)
		return 1
	}

	if err := report.Write(cfg.ReportFormat, stdout, summary); err != nil && !report.IsBrokenPipe(err) {
		fmt.Fprintf(stderr, "write report: %v\n", err)
		return 1
	}
	return 0
}
