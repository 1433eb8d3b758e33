package main

import (
	"fmt"
	"os"

	"github.com/QingyuanL1/financial-backend-sub000/internal/importer"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/output"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/period"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBudgetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage yearly budget plans",
	}
	cmd.AddCommand(newBudgetImportCmd(opts), newBudgetShowCmd(opts))
	return cmd
}

func newBudgetImportCmd(opts *rootOptions) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace a year's budget plan from an .xlsx, .csv or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := period.ValidateYear(year); err != nil {
				return err
			}

			a, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			entries, err := importer.LoadFile(args[0], year)
			if err != nil {
				a.logger.Error("failed to read budget file",
					zap.String("op", "main.budgetImport"),
					zap.String("file", args[0]),
					zap.Error(err),
				)
				return err
			}
			if err := validation.ValidateEntries(entries); err != nil {
				return err
			}

			ctx := commandContext(cmd)
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.ReplaceBudgetYear(ctx, year, entries); err != nil {
				a.logger.Error("failed to save budget plan",
					zap.String("op", "main.budgetImport"),
					zap.String("year", year),
					zap.Error(err),
				)
				return err
			}

			a.logger.Info("budget plan imported",
				zap.String("op", "main.budgetImport"),
				zap.String("year", year),
				zap.String("file", args[0]),
				zap.Int("entries", len(entries)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "budget year, e.g. 2025")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newBudgetShowCmd(opts *rootOptions) *cobra.Command {
	var (
		tableKey     string
		reportPeriod string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the budget entries a report table is matched against",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			year := period.Year(reportPeriod)
			if err := period.ValidateYear(year); err != nil {
				return fmt.Errorf("invalid --period %q: %w", reportPeriod, err)
			}

			a, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ctx := commandContext(cmd)
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			entries, err := s.BudgetEntries(ctx, tableKey, year)
			if err != nil {
				a.logger.Error("failed to load budget plan",
					zap.String("op", "main.budgetShow"),
					zap.String("tableKey", tableKey),
					zap.String("year", year),
					zap.Error(err),
				)
				return err
			}

			switch outputFormat {
			case constants.OutputFormatPretty:
				output.PrettyFormat(os.Stdout, tableKey, year, entries)
			case constants.OutputFormatCSV:
				return output.CsvFormat(os.Stdout, entries)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tableKey, "table", "", "budget table key, e.g. new_orders")
	cmd.Flags().StringVar(&reportPeriod, "period", "", "report period (YYYY-MM) or year (YYYY)")
	cmd.Flags().StringVar(&outputFormat, "output-format", constants.OutputFormatPretty, "output format: pretty, csv")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}
