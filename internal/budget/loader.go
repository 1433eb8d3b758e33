package budget

import (
	"context"

	"github.com/QingyuanL1/financial-backend-sub000/pkg/period"
	"go.uber.org/zap"
)

// Loader builds budget maps from a Source.
type Loader struct {
	source Source
	logger *zap.Logger
}

// NewLoader constructs a Loader reading budget rows from source.
func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, logger: logger}
}

// Load returns the budget map of tableKey for the year of p. A failed query
// is logged and yields an empty map; budget annotation is best effort and
// never fails the response it decorates.
func (l *Loader) Load(ctx context.Context, tableKey, p string) Map {
	year := period.Year(p)
	if l.source == nil {
		return Map{}
	}

	entries, err := l.source.BudgetEntries(ctx, tableKey, year)
	if err != nil {
		l.logger.Error("failed to load budget data",
			zap.String("op", "budget.Loader.Load"),
			zap.String("tableKey", tableKey),
			zap.String("year", year),
			zap.Error(err),
		)
		return Map{}
	}

	m := BuildMap(tableKey, entries)
	l.logger.Debug("budget data loaded",
		zap.String("op", "budget.Loader.Load"),
		zap.String("tableKey", tableKey),
		zap.String("year", year),
		zap.Int("entries", len(entries)),
		zap.Int("keys", len(m)),
	)
	return m
}
