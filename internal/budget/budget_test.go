package budget

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeSource struct {
	entries []Entry
	err     error

	calls    int
	tableKey string
	year     string
}

func (f *fakeSource) BudgetEntries(_ context.Context, tableKey, year string) ([]Entry, error) {
	f.calls++
	f.tableKey = tableKey
	f.year = year
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func entry(tableKey, category, customer string, budget int64) Entry {
	return Entry{
		Period:       "2025",
		TableKey:     tableKey,
		Category:     category,
		Customer:     customer,
		YearlyBudget: decimal.NewFromInt(budget),
	}
}

func TestBuildMap(t *testing.T) {
	entries := []Entry{
		entry("new_orders", "设备", "上海", 30000),
		entry("new_orders", "元件", "南京", 1200),
		{Category: "工程", Customer: "杭州", YearlyBudget: decimal.RequireFromString("99.5")},
	}

	got := BuildMap("new_orders", entries)
	want := Map{"设备-上海": 30000, "元件-南京": 1200, "工程-杭州": 99.5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildMap() = %v, want %v", got, want)
	}
}

func TestBuildMapDoubleIndexesNonMainBusiness(t *testing.T) {
	entries := []Entry{
		entry("non_main_business", "非主营业务", "租赁收入", 800),
		entry("non_main_business", "非主营业务", "材料销售", 150),
	}

	got := BuildMap("non_main_business", entries)
	for _, key := range []string{"非主营业务-租赁收入", "租赁收入", "非主营业务-材料销售", "材料销售"} {
		if _, ok := got[key]; !ok {
			t.Errorf("expected key %q in %v", key, got)
		}
	}
	if got["租赁收入"] != got["非主营业务-租赁收入"] {
		t.Fatalf("bare and qualified keys should share the same value, got %v", got)
	}

	other := BuildMap("new_orders", entries)
	if _, ok := other["租赁收入"]; ok {
		t.Fatalf("bare customer key should only be indexed for non_main_business")
	}
}

func TestLoaderDerivesYear(t *testing.T) {
	src := &fakeSource{entries: []Entry{entry("new_orders", "设备", "上海", 30000)}}
	loader := NewLoader(src, zap.NewNop())

	m := loader.Load(context.Background(), "new_orders", "2025-01")
	if src.year != "2025" {
		t.Fatalf("expected year 2025, got %q", src.year)
	}
	if src.tableKey != "new_orders" {
		t.Fatalf("expected table key new_orders, got %q", src.tableKey)
	}
	if m["设备-上海"] != 30000 {
		t.Fatalf("expected budget 30000, got %v", m)
	}
}

func TestLoaderDegradesToEmptyMapOnError(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	loader := NewLoader(src, zap.NewNop())

	m := loader.Load(context.Background(), "bad_debt_provision_situation", "2025-03")
	if m == nil {
		t.Fatal("expected non-nil empty map")
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestLoaderWithoutSource(t *testing.T) {
	loader := NewLoader(nil, nil)
	if m := loader.Load(context.Background(), "new_orders", "2025-01"); len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}
