package pgrecords

import (
	"context"

	"github.com/pkg/errors"
)

// initSchema идемпотентен: повторный запуск против той же БД не дублирует
// и не теряет индексы.
func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS records (
  tracking_number TEXT PRIMARY KEY,
  company TEXT NOT NULL DEFAULT '',
  batch TEXT NOT NULL DEFAULT '',
  kind TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  arrived_at TEXT NOT NULL DEFAULT '',
  dispatched_at TEXT NOT NULL DEFAULT '',
  recipient TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  source_row INT NOT NULL DEFAULT 0,
  source_column INT NOT NULL DEFAULT 0,
  source_column_label TEXT NOT NULL DEFAULT '',
  origin TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`,
		// Вторичные выборки по партии и перевозчику.
		`CREATE INDEX IF NOT EXISTS idx_records_batch ON records(batch)`,
		`CREATE INDEX IF NOT EXISTS idx_records_company ON records(company)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
