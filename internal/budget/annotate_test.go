package budget

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("failed to decode %s: %v", raw, err)
	}
	return v
}

func newTestAnnotator(src Source) *Annotator {
	return NewAnnotator(NewLoader(src, zap.NewNop()))
}

func TestAttachNewOrdersScenario(t *testing.T) {
	src := &fakeSource{entries: []Entry{entry("new_orders", "设备", "上海", 30000)}}
	a := newTestAnnotator(src)

	data := decode(t, `{"equipment":[{"customer":"上海","currentTotal":7500}],"component":[],"project":[]}`)
	got := a.AttachNewOrders(context.Background(), "2025-01", data).(map[string]any)

	if src.tableKey != "new_orders" || src.year != "2025" {
		t.Fatalf("unexpected budget query (%s, %s)", src.tableKey, src.year)
	}
	items := got["equipment"].([]any)
	want := map[string]any{"customer": "上海", "currentTotal": 7500.0, "yearlyPlan": 30000.0}
	if !reflect.DeepEqual(items[0], want) {
		t.Fatalf("AttachNewOrders() item = %v, want %v", items[0], want)
	}
}

func TestAnnotateBuildsOneMapPerCall(t *testing.T) {
	src := &fakeSource{entries: []Entry{entry("accounts_receivable_situation", "设备", "上海", 1000)}}
	a := newTestAnnotator(src)

	data := decode(t, `[{"category":"设备","customer":"上海","currentTotal":10},{"category":"元件","customer":"上海","currentTotal":20},{"category":"工程","customer":"北京"}]`)
	a.Annotate(context.Background(), "accounts_receivable_situation", "2025-06", data)

	if src.calls != 1 {
		t.Fatalf("expected exactly one budget query, got %d", src.calls)
	}
}

func TestAnnotateWithoutBudgetRows(t *testing.T) {
	a := newTestAnnotator(&fakeSource{err: errors.New("db down")})

	data := decode(t, `[{"category":"设备","customer":"上海","currentTotal":10},{"category":"设备","customer":"南京","yearlyPlan":50}]`)
	got := a.Annotate(context.Background(), "bad_debt_provision_situation", "2025-06", data).([]any)

	first := got[0].(map[string]any)
	if first["yearlyPlan"] != 0.0 {
		t.Fatalf("expected default plan 0, got %v", first["yearlyPlan"])
	}
	second := got[1].(map[string]any)
	if second["yearlyPlan"] != 50.0 {
		t.Fatalf("expected existing plan to be kept, got %v", second["yearlyPlan"])
	}
	for _, raw := range got {
		if _, ok := raw.(map[string]any)["progress"]; ok {
			t.Fatalf("unmatched item should not gain progress: %v", raw)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	data := decode(t, `{"equipment":[{"customer":"上海","currentTotal":5}],"total":5}`)
	before := decode(t, `{"equipment":[{"customer":"上海","currentTotal":5}],"total":5}`)

	Apply(KindInventoryStructure, Map{"设备-上海": 10}, data)

	if !reflect.DeepEqual(data, before) {
		t.Fatalf("input payload was modified: %v", data)
	}
}

func TestApplyCategoryGrouped(t *testing.T) {
	kinds := []TableKind{KindInventoryStructure, KindContractInventory, KindBidFulfillment, KindWorkInProgress}
	data := decode(t, `{
		"equipment":[{"customer":"上海","currentTotal":50}],
		"component":[{"customerType":"南京","currentTotal":30}],
		"project":[{"projectName":"地铁","currentTotal":10}],
		"summary":{"total":90}
	}`)
	m := Map{"设备-上海": 100, "元件-南京": 60, "工程-地铁": 0}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			got := Apply(kind, m, data).(map[string]any)

			equipment := got["equipment"].([]any)[0].(map[string]any)
			if equipment["yearlyPlan"] != 100.0 || equipment["progress"] != "50.00%" {
				t.Fatalf("unexpected equipment annotation %v", equipment)
			}
			component := got["component"].([]any)[0].(map[string]any)
			if component["yearlyPlan"] != 60.0 || component["progress"] != "50.00%" {
				t.Fatalf("unexpected component annotation %v", component)
			}
			project := got["project"].([]any)[0].(map[string]any)
			if project["yearlyPlan"] != 0.0 || project["progress"] != "/" {
				t.Fatalf("unexpected project annotation %v", project)
			}
			if !reflect.DeepEqual(got["summary"], map[string]any{"total": 90.0}) {
				t.Fatalf("non-group keys should pass through, got %v", got["summary"])
			}
		})
	}
}

func TestApplyFlatObjectUsesGroupAlias(t *testing.T) {
	data := decode(t, `{"equipment":[{"customer":"上海","currentTotal":25}],"note":"x"}`)
	got := Apply("order_to_income", Map{"设备-上海": 100}, data).(map[string]any)

	item := got["equipment"].([]any)[0].(map[string]any)
	if item["yearlyPlan"] != 100.0 || item["progress"] != "25.00%" {
		t.Fatalf("unexpected annotation %v", item)
	}
	if got["note"] != "x" {
		t.Fatalf("expected scalar field to pass through, got %v", got["note"])
	}
}

func TestApplyMainContributionRate(t *testing.T) {
	data := decode(t, `{
		"equipment":{"上海":{"plan":"","actual":"12%"},"南京":{"plan":"5%"}},
		"营业收入":{"合计":{"plan":""}},
		"remark":"n/a"
	}`)
	m := Map{"设备-上海": 25.5, "设备-南京": 0, "营业收入-合计": 30}

	got := Apply(KindMainContributionRate, m, data).(map[string]any)

	equipment := got["equipment"].(map[string]any)
	if plan := equipment["上海"].(map[string]any)["plan"]; plan != "25.5%" {
		t.Fatalf("expected plan 25.5%%, got %v", plan)
	}
	if plan := equipment["南京"].(map[string]any)["plan"]; plan != "5%" {
		t.Fatalf("zero budget should keep existing plan, got %v", plan)
	}
	if plan := got["营业收入"].(map[string]any)["合计"].(map[string]any)["plan"]; plan != "30%" {
		t.Fatalf("expected plan 30%%, got %v", plan)
	}
	if _, ok := equipment["上海"].(map[string]any)["progress"]; ok {
		t.Fatal("contribution rate rows must not receive progress")
	}
	if got["remark"] != "n/a" {
		t.Fatalf("expected remark to pass through, got %v", got["remark"])
	}
}

func TestApplyPersonnelWithdrawalsGroups(t *testing.T) {
	data := decode(t, `{"equipment":[{"customerType":"国企","initialBalance":1}],"component":[{"customerType":"国企","initialBalance":2}]}`)
	got := Apply(KindPersonnelWithdrawals, Map{"设备-国企": 70}, data).(map[string]any)

	if v := got["equipment"].([]any)[0].(map[string]any)["initialBalance"]; v != 70.0 {
		t.Fatalf("expected equipment initialBalance 70, got %v", v)
	}
	if v := got["component"].([]any)[0].(map[string]any)["initialBalance"]; v != 2.0 {
		t.Fatalf("expected component initialBalance unchanged, got %v", v)
	}
}

func TestApplyPersonnelWithdrawalsCategoryNamedGroups(t *testing.T) {
	data := decode(t, `{"设备":[{"customerType":"国企","initialBalance":1}],"其他":[{"customerType":"民企","initialBalance":3}]}`)
	got := Apply(KindPersonnelWithdrawals, Map{"设备-国企": 70}, data).(map[string]any)

	if v := got["设备"].([]any)[0].(map[string]any)["initialBalance"]; v != 70.0 {
		t.Fatalf("expected initialBalance 70 from the group name, got %v", v)
	}
	if v := got["其他"].([]any)[0].(map[string]any)["initialBalance"]; v != 3.0 {
		t.Fatalf("expected unmatched initialBalance unchanged, got %v", v)
	}
}

func TestApplySegmentGroupsUseFallbackKeys(t *testing.T) {
	data := decode(t, `{"设备":[{"customer":"上海","currentTotal":10}]}`)
	got := Apply(KindAccountsReceivable, Map{"设备-上海": 100}, data).(map[string]any)

	item := got["设备"].([]any)[0].(map[string]any)
	if item["yearlyPlan"] != 100.0 {
		t.Fatalf("expected the 设备 fallback key to match, got %v", item)
	}
}

func TestApplyNonMainBusinessArray(t *testing.T) {
	entries := []Entry{entry("non_main_business", "非主营业务", "租赁收入", 400)}
	m := BuildMap("non_main_business", entries)

	data := decode(t, `[{"category":"租赁收入","currentTotal":100},{"category":"其他","currentTotal":1}]`)
	got := Apply(KindNonMainBusiness, m, data).([]any)

	first := got[0].(map[string]any)
	if first["yearlyPlan"] != 400.0 || first["progress"] != "25.00%" {
		t.Fatalf("unexpected annotation %v", first)
	}
	second := got[1].(map[string]any)
	if second["yearlyPlan"] != 0.0 {
		t.Fatalf("expected default plan, got %v", second)
	}
}

func TestApplyPassesThroughScalarsAndNonObjects(t *testing.T) {
	if got := Apply(KindGeneric, Map{"a": 1}, "raw"); got != "raw" {
		t.Fatalf("expected scalar passthrough, got %v", got)
	}
	if got := Apply(KindGeneric, Map{"a": 1}, nil); got != nil {
		t.Fatalf("expected nil passthrough, got %v", got)
	}
	got := Apply(KindGeneric, Map{"a": 1}, []any{"x", 3.0}).([]any)
	if !reflect.DeepEqual(got, []any{"x", 3.0}) {
		t.Fatalf("expected non-object elements to pass through, got %v", got)
	}
}

func TestAttachBusinessIncome(t *testing.T) {
	src := &fakeSource{entries: []Entry{entry("business_income", "营业收入", "主营业务", 5000)}}
	a := newTestAnnotator(src)

	data := decode(t, `[{"category":"主营业务","currentTotal":1000},{"category":"其他业务","yearlyPlan":20}]`)
	got := a.AttachBusinessIncome(context.Background(), "2025-02", data).([]any)

	if v := got[0].(map[string]any)["yearlyPlan"]; v != 5000.0 {
		t.Fatalf("expected yearlyPlan 5000, got %v", v)
	}
	if v := got[1].(map[string]any)["yearlyPlan"]; v != 20.0 {
		t.Fatalf("expected existing plan kept, got %v", v)
	}
}

func TestAttachProjectTracking(t *testing.T) {
	src := &fakeSource{entries: []Entry{entry("project_tracking", "工程", "地铁", 800)}}
	a := newTestAnnotator(src)

	data := decode(t, `{"project":[{"customer":"地铁","currentTotal":400}]}`)
	got := a.AttachProjectTracking(context.Background(), "2025-02", data).(map[string]any)

	item := got["project"].([]any)[0].(map[string]any)
	if item["yearlyPlan"] != 800.0 {
		t.Fatalf("expected yearlyPlan 800, got %v", item)
	}
	if _, ok := item["progress"]; ok {
		t.Fatal("project tracking rows must not receive progress")
	}
	if src.tableKey != "project_tracking" {
		t.Fatalf("expected project_tracking budget key, got %s", src.tableKey)
	}
}
