package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-trackaudit/internal/db"
	"backend-trackaudit/internal/objstore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const fetchTimeout = 30 * time.Second

// Schema creates the catalog table. An object is identified by its name
// within a kind, so saving the same name twice replaces the first row.
const Schema = `
CREATE TABLE IF NOT EXISTS storage_objects (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	url        TEXT,
	content    BYTEA,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS storage_objects_kind_name_key ON storage_objects (kind, name);
`

// Service is a Postgres-backed object catalog. Rows either carry the
// document inline or point at a URL it can be downloaded from.
type Service struct {
	db      db.Querier
	kind    string
	fetchFn func(url string) ([]byte, error)
}

func NewService(db db.Querier, kind string) *Service {
	return &Service{db: db, kind: kind, fetchFn: fetchURL}
}

func (s *Service) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	return err
}

// SaveObject upserts by name and returns the id of the stored row, which is
// the original id when the name already existed.
func (s *Service) SaveObject(ctx context.Context, name, url string, content []byte) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO storage_objects (id, name, kind, url, content)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (kind, name) DO UPDATE SET url = EXCLUDED.url, content = EXCLUDED.content
		RETURNING id
	`, uuid.NewString(), name, s.kind, url, content).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]objstore.ObjectID, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT name FROM storage_objects
		WHERE kind=$1
		ORDER BY name
	`, s.kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []objstore.ObjectID
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		ids = append(ids, objstore.ObjectID(name))
	}
	return ids, rows.Err()
}

func (s *Service) Fetch(ctx context.Context, id objstore.ObjectID) ([]byte, error) {
	var url string
	var content []byte
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(url,''), content FROM storage_objects
		WHERE kind=$1 AND name=$2
	`, s.kind, string(id)).Scan(&url, &content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", objstore.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if len(content) > 0 || url == "" {
		return content, nil
	}
	return s.fetchFn(url)
}

func fetchURL(url string) ([]byte, error) {
	code, body, errs := fiber.Get(url).Timeout(fetchTimeout).Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch %s: %w", url, errs[0])
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, code)
	}
	return body, nil
}
