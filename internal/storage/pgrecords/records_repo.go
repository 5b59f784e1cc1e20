package pgrecords

import (
	"context"

	"github.com/BearBump/TrackSheet/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const recordColumns = `
  tracking_number, company, batch, kind, status,
  arrived_at, dispatched_at,
  recipient, phone, address,
  source_row, source_column, source_column_label,
  origin, updated_at`

// Put — upsert по tracking_number. updated_at проставляет хранилище
// (clock_timestamp, строго растёт даже внутри одной транзакции),
// значение из записи игнорируется.
func (s *Storage) Put(ctx context.Context, recs []models.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range recs {
		if r.TrackingNumber == "" {
			return errors.New("trackingNumber is empty")
		}
		_, err := tx.Exec(ctx, `
INSERT INTO records (
  tracking_number, company, batch, kind, status,
  arrived_at, dispatched_at,
  recipient, phone, address,
  source_row, source_column, source_column_label,
  origin, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,clock_timestamp())
ON CONFLICT (tracking_number)
DO UPDATE SET
  company = EXCLUDED.company,
  batch = EXCLUDED.batch,
  kind = EXCLUDED.kind,
  status = EXCLUDED.status,
  arrived_at = EXCLUDED.arrived_at,
  dispatched_at = EXCLUDED.dispatched_at,
  recipient = EXCLUDED.recipient,
  phone = EXCLUDED.phone,
  address = EXCLUDED.address,
  source_row = EXCLUDED.source_row,
  source_column = EXCLUDED.source_column,
  source_column_label = EXCLUDED.source_column_label,
  origin = EXCLUDED.origin,
  updated_at = clock_timestamp()
`, r.TrackingNumber, r.Company, r.Batch, r.Kind, r.Status,
			r.ArrivedAt, r.DispatchedAt,
			r.Recipient, r.Phone, r.Address,
			r.SourceRow, r.SourceColumn, r.SourceColumnLabel,
			r.Origin)
		if err != nil {
			return errors.Wrap(err, "upsert record")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func (s *Storage) GetAll(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.Query(ctx, `SELECT`+recordColumns+` FROM records`)
	if err != nil {
		return nil, errors.Wrap(err, "select records")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Storage) GetByKey(ctx context.Context, trackingNumber string) (models.Record, bool, error) {
	rows, err := s.db.Query(ctx, `SELECT`+recordColumns+` FROM records WHERE tracking_number = $1`, trackingNumber)
	if err != nil {
		return models.Record{}, false, errors.Wrap(err, "select record")
	}
	defer rows.Close()

	recs, err := scanRecords(rows)
	if err != nil {
		return models.Record{}, false, err
	}
	if len(recs) == 0 {
		return models.Record{}, false, nil
	}
	return recs[0], true, nil
}

func (s *Storage) GetByBatch(ctx context.Context, batch string) ([]models.Record, error) {
	rows, err := s.db.Query(ctx, `SELECT`+recordColumns+` FROM records WHERE batch = $1`, batch)
	if err != nil {
		return nil, errors.Wrap(err, "select records by batch")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Storage) GetByCompany(ctx context.Context, company string) ([]models.Record, error) {
	rows, err := s.db.Query(ctx, `SELECT`+recordColumns+` FROM records WHERE company = $1`, company)
	if err != nil {
		return nil, errors.Wrap(err, "select records by company")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE records`); err != nil {
		return errors.Wrap(err, "clear records")
	}
	return nil
}

func scanRecords(rows pgx.Rows) ([]models.Record, error) {
	out := []models.Record{}
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(
			&r.TrackingNumber, &r.Company, &r.Batch, &r.Kind, &r.Status,
			&r.ArrivedAt, &r.DispatchedAt,
			&r.Recipient, &r.Phone, &r.Address,
			&r.SourceRow, &r.SourceColumn, &r.SourceColumnLabel,
			&r.Origin, &r.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan record")
		}
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
