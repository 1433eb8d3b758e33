package budget

import (
	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/format"
)

// TableKind identifies the budget key of a report table and selects its
// matching rule and payload shape.
type TableKind string

// Table kinds with bespoke matching.
const (
	KindBadDebtProvision          TableKind = "bad_debt_provision_situation"
	KindOverdueReceivables        TableKind = "overdue_accounts_receivable_situation"
	KindAccountsReceivable        TableKind = "accounts_receivable_situation"
	KindPaymentStructure          TableKind = "payment_structure_quality"
	KindMainNetProfitContribution TableKind = "main_business_net_profit_contribution"
	KindMainGrossProfitRate       TableKind = "main_business_gross_profit_rate_structure"
	KindNetProfitStructure        TableKind = "net_profit_structure_quality"
	KindNonMainBusiness           TableKind = "non_main_business"
	KindNonMainNetProfit          TableKind = "non_main_business_net_profit_contribution"

	KindInventoryStructure TableKind = "inventory_structure_quality"
	KindContractInventory  TableKind = "contract_inventory"
	KindBidFulfillment     TableKind = "bid_fulfillment_status"
	KindWorkInProgress     TableKind = "work_in_progress"

	KindMainContributionRate  TableKind = "main_business_contribution_rate_structure"
	KindDepartmentCostCenter  TableKind = "department_cost_center_profit_loss"
	KindPersonnelWithdrawals  TableKind = "cost_estimate_personnel_withdrawals"
	KindNewOrders             TableKind = "new_orders"
	KindProjectTracking       TableKind = "project_tracking"
	KindBusinessIncome        TableKind = "business_income"
	KindGeneric               TableKind = ""
)

// categoryAliases maps English category and group keys to budget categories.
var categoryAliases = map[string]string{
	"equipment":   constants.CategoryEquipment,
	"components":  constants.CategoryComponents,
	"engineering": constants.CategoryEngineering,
	"revenue":     constants.CategoryRevenue,
	"non_main":    constants.CategoryNonMain,
	"component":   constants.CategoryComponents,
	"project":     constants.CategoryEngineering,
}

// ChineseCategory returns the budget category for an English key, or "" when
// the key has no alias.
func ChineseCategory(key string) string {
	return categoryAliases[key]
}

// Strategy annotates one business item against a budget map. chineseCategory
// is the category implied by the payload group the item came from, if any.
type Strategy func(item Item, m Map, chineseCategory string) Item

// rule is the declarative form of a Strategy.
type rule struct {
	// candidates lists lookup keys in priority order; the first key present
	// in the map wins.
	candidates func(item Item, chineseCategory string) []string

	// target receives the matched budget. Defaults to yearlyPlan.
	target string

	// progressFields are read, first present wins, as the current value.
	// A nil slice disables progress.
	progressFields []string

	// notApplicable is the progress reported for a plan <= 0.
	notApplicable string

	// unmatchedProgress, when set, is written if an unmatched item has no progress.
	unmatchedProgress string

	// keepUnmatched leaves the target untouched instead of defaulting it to 0.
	keepUnmatched bool
}

func (r rule) targetField() string {
	if r.target == "" {
		return fieldYearlyPlan
	}
	return r.target
}

func (r rule) apply(item Item, m Map, chineseCategory string) Item {
	out := item.clone()
	target := r.targetField()

	if _, plan, ok := m.first(r.candidates(item, chineseCategory)); ok {
		out[target] = plan
		if r.progressFields != nil {
			out[fieldProgress] = format.Progress(item.number(r.progressFields...), plan, r.notApplicable)
		}
		return out
	}

	if !r.keepUnmatched && !item.has(target) {
		out[target] = float64(0)
	}
	if r.unmatchedProgress != "" && !item.has(fieldProgress) {
		out[fieldProgress] = r.unmatchedProgress
	}
	return out
}

// keyList accumulates "-"-joined candidate keys, skipping any key with a
// missing part.
type keyList []string

func (k *keyList) add(parts ...string) {
	for _, p := range parts {
		if p == "" {
			return
		}
	}
	key := parts[0]
	for _, p := range parts[1:] {
		key += "-" + p
	}
	*k = append(*k, key)
}

func segmentCustomerKeys(item Item, chineseCategory string) []string {
	segment, ok := item.lookup("segment", "category")
	if !ok {
		segment = chineseCategory
	}
	customer, _ := item.lookup("customerType", "customer", "projectName")

	var keys keyList
	keys.add(segment, customer)
	keys.add(constants.CategoryEquipment, customer)
	keys.add(constants.CategoryComponents, customer)
	keys.add(constants.CategoryEngineering, customer)
	keys.add(customer)
	return keys
}

func netProfitStructureKeys(item Item, _ string) []string {
	customer, _ := item.lookup("category", "projectName", "customer")
	var keys keyList
	keys.add(constants.CategoryNetProfit, customer)
	keys.add(customer)
	return keys
}

func nonMainBusinessKeys(item Item, _ string) []string {
	category, _ := item.lookup("category")
	var keys keyList
	keys.add(constants.CategoryNonMain, category)
	keys.add(category)
	return keys
}

func nonMainNetProfitKeys(item Item, _ string) []string {
	name, _ := item.lookup("name")
	var keys keyList
	keys.add(constants.CategoryNonMain, name)
	keys.add(name)
	return keys
}

func genericKeys(item Item, chineseCategory string) []string {
	category, _ := item.lookup("category")
	chinese := chineseCategory
	if chinese == "" {
		chinese = ChineseCategory(category)
	}
	customer, _ := item.lookup("customer")
	projectName, _ := item.lookup("projectName")
	customerType, _ := item.lookup("customerType")

	var keys keyList
	keys.add(category, customer)
	keys.add(category, projectName)
	keys.add(category, customerType)
	keys.add(chinese, customer)
	keys.add(chinese, projectName)
	keys.add(chinese, customerType)
	keys.add(customer)
	keys.add(projectName)
	keys.add(customerType)
	keys.add(category)
	return keys
}

func departmentKeys(item Item, _ string) []string {
	department, _ := item.lookup("department")
	var keys keyList
	keys.add(constants.CategoryDepartmentCostCenter, department)
	return keys
}

func personnelWithdrawalKeys(item Item, chineseCategory string) []string {
	categoryName, ok := item.lookup("categoryName")
	if !ok {
		categoryName = chineseCategory
	}
	customerType, _ := item.lookup("customerType")
	var keys keyList
	keys.add(categoryName, customerType)
	return keys
}

// groupCustomerKeys matches order and project tracking items against their
// group's category.
func groupCustomerKeys(item Item, chineseCategory string) []string {
	category := chineseCategory
	if category == "" {
		raw, _ := item.lookup("category")
		category = ChineseCategory(raw)
		if category == "" {
			category = raw
		}
	}
	customer, _ := item.lookup("customer")
	var keys keyList
	keys.add(category, customer)
	return keys
}

func businessIncomeKeys(item Item, _ string) []string {
	category, _ := item.lookup("category")
	var keys keyList
	keys.add(constants.CategoryRevenue, category)
	keys.add(category)
	return keys
}

func segmentRule(progressFields ...string) rule {
	return rule{
		candidates:     segmentCustomerKeys,
		progressFields: progressFields,
		notApplicable:  constants.ProgressNotApplicable,
	}
}

var (
	genericRule = rule{
		candidates:     genericKeys,
		progressFields: []string{"currentTotal"},
		notApplicable:  constants.ProgressNotApplicable,
	}

	planOnlyGroupRule = rule{candidates: groupCustomerKeys}

	personnelWithdrawalRule = rule{
		candidates:    personnelWithdrawalKeys,
		target:        fieldInitBalance,
		keepUnmatched: true,
	}
)

// rules holds the flat per-item matching rules. Kinds absent here use genericRule.
var rules = map[TableKind]rule{
	KindBadDebtProvision:          segmentRule("finalBalance", "currentTotal"),
	KindOverdueReceivables:        segmentRule("initialBalance", "currentTotal"),
	KindAccountsReceivable:        segmentRule("initialBalance", "currentTotal"),
	KindPaymentStructure:          segmentRule("plan", "actual", "currentTotal"),
	KindMainNetProfitContribution: segmentRule("yearInitialBalance", "currentTotal"),
	KindMainGrossProfitRate:       segmentRule("currentTotal"),
	KindNetProfitStructure: {
		candidates:     netProfitStructureKeys,
		progressFields: []string{"yearInitialBalance", "currentTotal"},
		notApplicable:  constants.ProgressNotApplicable,
	},
	KindNonMainBusiness: {
		candidates:     nonMainBusinessKeys,
		progressFields: []string{"currentTotal"},
		notApplicable:  constants.ProgressNotApplicable,
	},
	// Reports "0.00%" where every other table reports "/", including for
	// unmatched items. Downstream screens rely on it.
	KindNonMainNetProfit: {
		candidates:        nonMainNetProfitKeys,
		progressFields:    []string{"actual"},
		notApplicable:     constants.ProgressZero,
		unmatchedProgress: constants.ProgressZero,
	},
	KindDepartmentCostCenter: {
		candidates: departmentKeys,
		target:     fieldYearlyBudget,
	},
	KindBusinessIncome: {candidates: businessIncomeKeys},
}

func ruleFor(kind TableKind) rule {
	if r, ok := rules[kind]; ok {
		return r
	}
	return genericRule
}

// StrategyFor returns the per-item strategy of a table kind.
func StrategyFor(kind TableKind) Strategy {
	switch {
	case kind == KindPersonnelWithdrawals:
		return personnelWithdrawalRule.apply
	case kind.planOnlyGrouped():
		return planOnlyGroupRule.apply
	}
	return ruleFor(kind).apply
}

// Candidates returns the ordered lookup keys a table kind tries for item.
func Candidates(kind TableKind, item Item, chineseCategory string) []string {
	switch {
	case kind == KindPersonnelWithdrawals:
		return personnelWithdrawalRule.candidates(item, chineseCategory)
	case kind.planOnlyGrouped():
		return planOnlyGroupRule.candidates(item, chineseCategory)
	}
	return ruleFor(kind).candidates(item, chineseCategory)
}

// categoryGrouped reports whether payloads of the kind are objects of
// equipment/component/project item arrays matched with the generic rule.
func (k TableKind) categoryGrouped() bool {
	switch k {
	case KindInventoryStructure, KindContractInventory, KindBidFulfillment, KindWorkInProgress:
		return true
	}
	return false
}

// planOnlyGrouped reports whether the kind is a grouped payload that only
// receives yearlyPlan, with no progress.
func (k TableKind) planOnlyGrouped() bool {
	return k == KindNewOrders || k == KindProjectTracking
}
