// Package importer reads budget plans from spreadsheet, CSV and YAML files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFileType is returned for files that are not .xlsx, .csv or .yaml.
var ErrUnsupportedFileType = errors.New("unsupported file type (expected .xlsx, .csv, .yaml or .yml)")

// RowError reports an invalid row; Row is 1-based as shown in a spreadsheet.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// yamlPlan is the document layout of a YAML budget plan.
type yamlPlan struct {
	Entries []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	TableKey     string `yaml:"tableKey"`
	Category     string `yaml:"category"`
	Customer     string `yaml:"customer"`
	YearlyBudget string `yaml:"yearlyBudget"`
}

// LoadFile reads the budget plan at path, choosing the format by extension,
// and stamps every entry with year.
func LoadFile(path, year string) ([]budget.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening budget file: %w", err)
	}
	defer f.Close()
	return Load(f, filepath.Ext(path), year)
}

// Load reads a budget plan of the given extension from r.
func Load(r io.Reader, ext, year string) ([]budget.Entry, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		rows, err := readSpreadsheet(r)
		if err != nil {
			return nil, err
		}
		return parseRows(rows, year)
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		return parseRows(rows, year)
	case ".yaml", ".yml":
		return parseYAML(r, year)
	}
	return nil, ErrUnsupportedFileType
}

func readSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// headerNames are the accepted column titles, compared case-insensitively
// with spaces and underscores removed.
var headerNames = [4]string{"tablekey", "category", "customer", "yearlybudget"}

func normalizeHeader(cell string) string {
	return strings.ToLower(strings.NewReplacer("_", "", " ", "").Replace(cell))
}

// isHeader reports whether cells carry the table_key and yearly_budget
// column titles. A missing budget title still counts.
func isHeader(cells []string) bool {
	if normalizeHeader(cells[0]) != headerNames[0] {
		return false
	}
	budgetTitle := normalizeHeader(cells[3])
	return budgetTitle == "" || budgetTitle == headerNames[3]
}

// parseRows converts table_key, category, customer, yearly_budget rows. The
// first non-blank row is skipped when it holds the column titles; blank rows
// are skipped.
func parseRows(rows [][]string, year string) ([]budget.Entry, error) {
	entries := make([]budget.Entry, 0, len(rows))
	first := true
	for i, row := range rows {
		cells := make([]string, 4)
		for j := 0; j < len(row) && j < len(cells); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		if strings.Join(cells, "") == "" {
			continue
		}
		if first {
			first = false
			if isHeader(cells) {
				continue
			}
		}

		amount, err := parseAmount(cells[3])
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}

		e, err := newEntry(year, cells[0], cells[1], cells[2], amount)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseYAML(r io.Reader, year string) ([]budget.Entry, error) {
	var plan yamlPlan
	if err := yaml.NewDecoder(r).Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return []budget.Entry{}, nil
		}
		return nil, fmt.Errorf("reading yaml: %w", err)
	}

	entries := make([]budget.Entry, 0, len(plan.Entries))
	for i, item := range plan.Entries {
		amount, err := parseAmount(item.YearlyBudget)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		e, err := newEntry(year, item.TableKey, item.Category, item.Customer, amount)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid yearly budget %q", value)
	}
	return amount, nil
}

func newEntry(year, tableKey, category, customer string, amount decimal.Decimal) (budget.Entry, error) {
	tableKey = strings.TrimSpace(tableKey)
	category = strings.TrimSpace(category)
	customer = strings.TrimSpace(customer)
	switch {
	case tableKey == "":
		return budget.Entry{}, errors.New("table key is required")
	case category == "":
		return budget.Entry{}, errors.New("category is required")
	case customer == "":
		return budget.Entry{}, errors.New("customer is required")
	}
	return budget.Entry{
		Period:       year,
		TableKey:     tableKey,
		Category:     category,
		Customer:     customer,
		YearlyBudget: amount,
	}, nil
}
