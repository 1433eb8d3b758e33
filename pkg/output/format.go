// Package output renders budget plans for the terminal.
package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
// Entries are printed in the order given, keyed the way reports match them.
func PrettyFormat(w io.Writer, tableKey, year string, entries []budget.Entry) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Budget for %s in %s ---\n", tableKey, year)
	if len(entries) == 0 {
		fmt.Fprintf(w, "(no budget entries)\n")
		return
	}
	fmt.Fprintf(w, "Key | Yearly Budget\n")
	fmt.Fprintf(w, "___ | _____________\n")
	var total float64
	for _, e := range entries {
		amount := e.YearlyBudget.InexactFloat64()
		_, _ = p.Fprintf(w, "%s | %.2f\n", e.Key(), amount)
		total += amount
	}
	_, _ = p.Fprintf(w, "Total | %.2f\n", mathutil.Round(total))
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, entries []budget.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"key", "category", "customer", "yearly budget"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Key(), e.Category, e.Customer, e.YearlyBudget.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
