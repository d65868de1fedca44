package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backend-trackaudit/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const fixture = `{"global":{"iqengine:geotrack":{"coordinates":[[10,50,0],[10.01,50.01,0],[10.02,50.02,0]]}},"captures":[{"core:datetime":"2023-04-11T02:20:01Z"},{"core:datetime":"2023-04-11T02:20:00Z"}]}`

func fsDeps(t *testing.T, format string) mainDeps {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.sigmf-meta"), []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "broken.sigmf-meta"), []byte(`{"captures":[]}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return mainDeps{
		loadConfig: func() config.Config {
			return config.Config{
				StoreBackend:        "fs",
				StoreRoot:           root,
				MetaSuffix:          ".sigmf-meta",
				AngleThresholdDeg:   30,
				TimeGapThresholdSec: 2,
				EarthRadiusKm:       6371,
				ReportFormat:        format,
				JWTSecret:           "secret",
			}
		},
	}
}

func TestRunTextReport(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(fsDeps(t, "text"), nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"record broken.sigmf-meta: schema error: missing global.iqengine:geotrack",
		"Number of files with time errors: 1",
		"Number of files with angle errors: 1",
		"Files audited: 1, failed: 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunJSONLReport(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(fsDeps(t, "jsonl"), nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if n := strings.Count(stdout.String(), "\n"); n != 3 {
		t.Fatalf("expected 3 jsonl lines, got %d", n)
	}
}

func TestRunUnknownFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(fsDeps(t, "xml"), nil, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRunToken(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(fsDeps(t, "text"), []string{"token", "ops"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if strings.Count(stdout.String(), ".") != 2 {
		t.Fatalf("expected a jwt, got %q", stdout.String())
	}
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(fsDeps(t, "text"), []string{"bogus"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Fatalf("expected usage text")
	}
}

func TestRunListError(t *testing.T) {
	deps := mainDeps{loadConfig: func() config.Config {
		return config.Config{StoreBackend: "fs", StoreRoot: filepath.Join(t.TempDir(), "missing"), ReportFormat: "text"}
	}}
	var stdout, stderr bytes.Buffer
	if code := run(deps, nil, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRunPostgresUnavailable(t *testing.T) {
	deps := mainDeps{
		loadConfig: func() config.Config { return config.Config{StoreBackend: "postgres"} },
		connectPostgres: func(config.Config) (*pgxpool.Pool, error) {
			return nil, errors.New("refused")
		},
	}
	var stdout, stderr bytes.Buffer
	if code := run(deps, nil, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRunRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	if err := srv.Set("sigmf:a.sigmf-meta", fixture); err != nil {
		t.Fatalf("seed: %v", err)
	}
	deps := mainDeps{
		loadConfig: func() config.Config {
			return config.Config{StoreBackend: "redis", RedisAddr: srv.Addr(), StorePrefix: "sigmf:", MetaSuffix: ".sigmf-meta", ReportFormat: "text"}
		},
		connectRedis: func(cfg config.Config) *redis.Client {
			return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		},
	}
	var stdout, stderr bytes.Buffer
	if code := run(deps, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Files audited: 1, failed: 0") {
		t.Fatalf("unexpected report:\n%s", stdout.String())
	}
}

func TestMainUsesOverrides(t *testing.T) {
	oldProvider, oldExit, oldArgs := mainDepsProvider, exit, os.Args
	defer func() {
		mainDepsProvider, exit, os.Args = oldProvider, oldExit, oldArgs
	}()

	code := -1
	os.Args = []string{"audit", "token", "ops"}
	mainDepsProvider = func() mainDeps { return fsDeps(t, "text") }
	exit = func(c int) { code = c }

	main()
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestDefaultDeps(t *testing.T) {
	deps := defaultDeps()
	if deps.loadConfig == nil || deps.connectPostgres == nil || deps.connectRedis == nil {
		t.Fatalf("expected default deps to be set")
	}
}
