package server

import (
	"context"
	"sort"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
)

// reportTable describes one stored report and how its payload is annotated.
type reportTable struct {
	Name      string `json:"name"`
	BudgetKey string `json:"budgetKey,omitempty"`

	attach func(a *budget.Annotator, ctx context.Context, period string, data any) any
}

func (t reportTable) annotate(ctx context.Context, a *budget.Annotator, period string, data any) any {
	if t.attach != nil {
		return t.attach(a, ctx, period, data)
	}
	if t.BudgetKey == "" {
		return data
	}
	return a.Annotate(ctx, t.BudgetKey, period, data)
}

func annotated(name string) reportTable {
	return reportTable{Name: name, BudgetKey: name}
}

func annotatedAs(name, budgetKey string) reportTable {
	return reportTable{Name: name, BudgetKey: budgetKey}
}

func plain(name string) reportTable {
	return reportTable{Name: name}
}

// reportTables lists the report tables served by the API.
func reportTables() map[string]reportTable {
	list := []reportTable{
		{Name: "new_orders", BudgetKey: string(budget.KindNewOrders), attach: (*budget.Annotator).AttachNewOrders},
		{Name: "project_tracking", BudgetKey: string(budget.KindProjectTracking), attach: (*budget.Annotator).AttachProjectTracking},
		{Name: "business_income_structure", BudgetKey: string(budget.KindBusinessIncome), attach: (*budget.Annotator).AttachBusinessIncome},

		annotated(string(budget.KindBadDebtProvision)),
		annotated(string(budget.KindOverdueReceivables)),
		annotated(string(budget.KindAccountsReceivable)),
		annotated(string(budget.KindPaymentStructure)),
		annotated(string(budget.KindMainNetProfitContribution)),
		annotated(string(budget.KindMainGrossProfitRate)),
		annotated(string(budget.KindNetProfitStructure)),
		annotated(string(budget.KindNonMainBusiness)),
		annotated(string(budget.KindNonMainNetProfit)),
		annotated(string(budget.KindInventoryStructure)),
		annotated(string(budget.KindContractInventory)),
		annotated(string(budget.KindBidFulfillment)),
		annotated(string(budget.KindWorkInProgress)),
		annotated(string(budget.KindMainContributionRate)),
		annotated(string(budget.KindDepartmentCostCenter)),
		annotated(string(budget.KindPersonnelWithdrawals)),

		annotated("order_to_income"),
		annotated("main_business_income"),
		annotated("cost_center_structure"),
		annotated("bid_status"),
		annotatedAs("main_business_revenue", "main_business_income"),

		plain("cash_flow"),
		plain("balance_sheet"),
		plain("inventory_situation"),
	}

	tables := make(map[string]reportTable, len(list))
	for _, t := range list {
		tables[t.Name] = t
	}
	return tables
}

func sortedTables(tables map[string]reportTable) []reportTable {
	out := make([]reportTable, 0, len(tables))
	for _, t := range tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
