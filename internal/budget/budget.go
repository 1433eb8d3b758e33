// Package budget attaches yearly budget figures from the budget_planning table
// to report payloads.
//
// A Loader turns the budget rows of one (table key, year) pair into a Map. The
// Annotator then walks a decoded JSON payload and, for every business item,
// tries the ordered candidate keys of the table's matching rule until one
// exists in the Map. Matched items gain the plan figure and, for most tables,
// a progress percentage; unmatched items keep their own plan or default to 0.
package budget

import (
	"context"

	"github.com/shopspring/decimal"
)

// Entry is one row of the budget_planning table.
type Entry struct {
	Period       string          `db:"period" json:"period" yaml:"period"`
	TableKey     string          `db:"table_key" json:"tableKey" yaml:"tableKey"`
	Category     string          `db:"category" json:"category" yaml:"category"`
	Customer     string          `db:"customer" json:"customer" yaml:"customer"`
	YearlyBudget decimal.Decimal `db:"yearly_budget" json:"yearlyBudget" yaml:"yearlyBudget"`
}

// Key returns the composite "{category}-{customer}" lookup key of the entry.
func (e Entry) Key() string {
	return e.Category + "-" + e.Customer
}

// Source yields the budget rows of one table key for one year.
type Source interface {
	BudgetEntries(ctx context.Context, tableKey, year string) ([]Entry, error)
}

// Map is the request-scoped lookup from composite key to yearly budget.
type Map map[string]float64

// first returns the first key in keys present in the map.
func (m Map) first(keys []string) (string, float64, bool) {
	for _, key := range keys {
		if value, ok := m[key]; ok {
			return key, value, true
		}
	}
	return "", 0, false
}

// BuildMap indexes entries by "{category}-{customer}". Entries of the
// non_main_business table are additionally indexed by bare customer because
// its items carry no category.
func BuildMap(tableKey string, entries []Entry) Map {
	m := make(Map, len(entries))
	for _, e := range entries {
		value := e.YearlyBudget.InexactFloat64()
		m[e.Key()] = value
		if TableKind(tableKey) == KindNonMainBusiness {
			m[e.Customer] = value
		}
	}
	return m
}
