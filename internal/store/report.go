package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// GetReport returns the stored JSON payload of a report table for a period.
func (s *Store) GetReport(ctx context.Context, tableKey, period string) (string, error) {
	query, args, err := builder().
		Select("data").
		From("report_data").
		Where(sq.Eq{"table_key": tableKey, "period": period}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building report query: %w", err)
	}

	var data string
	if err := s.db.GetContext(ctx, &data, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("querying report_data: %w", err)
	}
	return data, nil
}

// SaveReport replaces the payload of a report table for a period.
func (s *Store) SaveReport(ctx context.Context, tableKey, period, data string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := deleteReport(ctx, tx, tableKey, period); err != nil {
			return err
		}
		query, args, err := builder().
			Insert("report_data").
			Columns("table_key", "period", "data", "updated_at").
			Values(tableKey, period, data, time.Now().UTC().Format(time.DateTime)).
			ToSql()
		if err != nil {
			return fmt.Errorf("building report insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting report_data: %w", err)
		}
		return nil
	})
}

// DeleteReport removes the payload of a report table for a period. Deleting a
// missing report returns ErrNotFound.
func (s *Store) DeleteReport(ctx context.Context, tableKey, period string) error {
	query, args, err := builder().
		Delete("report_data").
		Where(sq.Eq{"table_key": tableKey, "period": period}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building report delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting report_data: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReportPeriods returns the periods stored for a report table, newest first.
func (s *Store) ListReportPeriods(ctx context.Context, tableKey string) ([]string, error) {
	query, args, err := builder().
		Select("period").
		From("report_data").
		Where(sq.Eq{"table_key": tableKey}).
		OrderBy("period DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building period query: %w", err)
	}

	periods := []string{}
	if err := s.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("querying report_data: %w", err)
	}
	return periods, nil
}

func deleteReport(ctx context.Context, tx *sqlx.Tx, tableKey, period string) error {
	query, args, err := builder().
		Delete("report_data").
		Where(sq.Eq{"table_key": tableKey, "period": period}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building report delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting report_data: %w", err)
	}
	return nil
}
