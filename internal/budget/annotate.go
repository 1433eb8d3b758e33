package budget

import (
	"context"

	"github.com/QingyuanL1/financial-backend-sub000/pkg/format"
)

// Annotator attaches budget figures to decoded report payloads.
type Annotator struct {
	loader *Loader
}

// NewAnnotator constructs an Annotator backed by loader.
func NewAnnotator(loader *Loader) *Annotator {
	return &Annotator{loader: loader}
}

// Annotate loads the budget map of tableKey for the year of period once and
// applies it to data. It never fails: without budget rows every item takes
// the unmatched default.
func (a *Annotator) Annotate(ctx context.Context, tableKey, period string, data any) any {
	m := a.loader.Load(ctx, tableKey, period)
	return Apply(TableKind(tableKey), m, data)
}

// AttachNewOrders sets yearlyPlan on new order items from the new_orders budget.
func (a *Annotator) AttachNewOrders(ctx context.Context, period string, data any) any {
	return a.Annotate(ctx, string(KindNewOrders), period, data)
}

// AttachProjectTracking sets yearlyPlan on project tracking items.
func (a *Annotator) AttachProjectTracking(ctx context.Context, period string, data any) any {
	return a.Annotate(ctx, string(KindProjectTracking), period, data)
}

// AttachBusinessIncome sets yearlyPlan on business income categories.
func (a *Annotator) AttachBusinessIncome(ctx context.Context, period string, data any) any {
	return a.Annotate(ctx, string(KindBusinessIncome), period, data)
}

// Apply annotates data with m according to the payload shape of kind. The
// input is never modified; objects along the annotated paths are copied.
func Apply(kind TableKind, m Map, data any) any {
	switch {
	case kind.categoryGrouped():
		return applyGrouped(data, m, genericRule.apply)
	case kind.planOnlyGrouped():
		return applyGrouped(data, m, planOnlyGroupRule.apply)
	case kind == KindMainContributionRate:
		return applyContributionRate(data, m)
	case kind == KindPersonnelWithdrawals:
		return applyFlat(data, m, personnelWithdrawalRule.apply, true)
	}
	return applyFlat(data, m, ruleFor(kind).apply, false)
}

// applyFlat annotates an item array, or every array held directly by an
// object, taking the group category from the alias of the object key. With
// rawGroupKeys set, a key without an alias is itself the category.
func applyFlat(data any, m Map, strategy Strategy, rawGroupKeys bool) any {
	switch v := data.(type) {
	case []any:
		return applyItems(v, m, strategy, "")
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			items, ok := value.([]any)
			if !ok {
				out[key] = value
				continue
			}
			category := ChineseCategory(key)
			if category == "" && rawGroupKeys {
				category = key
			}
			out[key] = applyItems(items, m, strategy, category)
		}
		return out
	}
	return data
}

func applyItems(items []any, m Map, strategy Strategy, chineseCategory string) []any {
	out := make([]any, len(items))
	for i, raw := range items {
		item, ok := asItem(raw)
		if !ok {
			out[i] = raw
			continue
		}
		out[i] = map[string]any(strategy(item, m, chineseCategory))
	}
	return out
}

// applyGrouped annotates the equipment/component/project arrays of a grouped
// payload with the category of each group fixed.
func applyGrouped(data any, m Map, strategy Strategy) any {
	obj, ok := data.(map[string]any)
	if !ok {
		return applyFlat(data, m, strategy, false)
	}
	out := make(map[string]any, len(obj))
	for key, value := range obj {
		items, isList := value.([]any)
		category := ChineseCategory(key)
		if !isList || category == "" {
			out[key] = value
			continue
		}
		out[key] = applyItems(items, m, strategy, category)
	}
	return out
}

// applyContributionRate fills {category: {customer: {plan}}} with "{budget}%"
// for every positive budget. No progress is derived.
func applyContributionRate(data any, m Map) any {
	obj, ok := data.(map[string]any)
	if !ok {
		return data
	}
	out := make(map[string]any, len(obj))
	for categoryKey, value := range obj {
		customers, ok := value.(map[string]any)
		if !ok {
			out[categoryKey] = value
			continue
		}
		category := ChineseCategory(categoryKey)
		if category == "" {
			category = categoryKey
		}

		annotated := make(map[string]any, len(customers))
		for customerKey, raw := range customers {
			entry, ok := asItem(raw)
			if !ok {
				annotated[customerKey] = raw
				continue
			}
			copied := entry.clone()
			if plan, found := m[category+"-"+customerKey]; found && plan > 0 {
				copied[fieldPlan] = format.PlainPercent(plan)
			}
			annotated[customerKey] = map[string]any(copied)
		}
		out[categoryKey] = annotated
	}
	return out
}
