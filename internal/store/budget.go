package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// categoryOrder sorts budget rows by the fixed business category precedence.
const categoryOrder = `CASE category
    WHEN '设备' THEN 1
    WHEN '元件' THEN 2
    WHEN '工程' THEN 3
    WHEN '营业收入' THEN 4
    WHEN '非主营业务' THEN 5
    ELSE 6 END`

var _ budget.Source = (*Store)(nil)

// BudgetEntries returns the budget rows of one table key for one year, ordered
// by category precedence then customer.
func (s *Store) BudgetEntries(ctx context.Context, tableKey, year string) ([]budget.Entry, error) {
	query, args, err := builder().
		Select("period", "table_key", "category", "customer", "yearly_budget").
		From("budget_planning").
		Where(sq.Eq{"table_key": tableKey, "period": year}).
		OrderBy(categoryOrder, "customer").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building budget query: %w", err)
	}

	entries := []budget.Entry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("querying budget_planning: %w", err)
	}
	return entries, nil
}

// ListBudgetYear returns every budget row of a year, ordered by table key,
// category precedence and customer.
func (s *Store) ListBudgetYear(ctx context.Context, year string) ([]budget.Entry, error) {
	query, args, err := builder().
		Select("period", "table_key", "category", "customer", "yearly_budget").
		From("budget_planning").
		Where(sq.Eq{"period": year}).
		OrderBy("table_key", categoryOrder, "customer").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building budget query: %w", err)
	}

	entries := []budget.Entry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("querying budget_planning: %w", err)
	}
	return entries, nil
}

// ReplaceBudgetYear deletes every budget row of year and inserts entries in
// one transaction. Entry periods are overwritten with year.
func (s *Store) ReplaceBudgetYear(ctx context.Context, year string, entries []budget.Entry) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := deleteBudgetYear(ctx, tx, year); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		insert := builder().
			Insert("budget_planning").
			Columns("period", "table_key", "category", "customer", "yearly_budget")
		for _, e := range entries {
			insert = insert.Values(year, strings.TrimSpace(e.TableKey), strings.TrimSpace(e.Category),
				strings.TrimSpace(e.Customer), e.YearlyBudget)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("building budget insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting budget_planning: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("budget plan replaced",
		zap.String("op", "store.ReplaceBudgetYear"),
		zap.String("year", year),
		zap.Int("entries", len(entries)),
	)
	return nil
}

// DeleteBudgetYear removes every budget row of year.
func (s *Store) DeleteBudgetYear(ctx context.Context, year string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return deleteBudgetYear(ctx, tx, year)
	})
}

func deleteBudgetYear(ctx context.Context, tx *sqlx.Tx, year string) error {
	query, args, err := builder().
		Delete("budget_planning").
		Where(sq.Eq{"period": year}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building budget delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting budget_planning: %w", err)
	}
	return nil
}
