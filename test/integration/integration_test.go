package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/QingyuanL1/financial-backend-sub000/internal/config"
	"github.com/QingyuanL1/financial-backend-sub000/internal/importer"
	"github.com/QingyuanL1/financial-backend-sub000/internal/server"
	"github.com/QingyuanL1/financial-backend-sub000/internal/store"
	"go.uber.org/zap"
)

const budgetYAML = `entries:
  - tableKey: bad_debt_provision_situation
    category: 设备
    customer: 上海
    yearlyBudget: 1000
  - tableKey: new_orders
    category: 元件
    customer: 北京
    yearlyBudget: "2,500"
  - tableKey: non_main_business_net_profit_contribution
    category: 非主营业务
    customer: 租赁收入
    yearlyBudget: 0
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// setup loads a configuration file, opens the store it names and imports the
// 2025 budget plan, the way the serve and budget import commands do.
func setup(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	configPath := writeFile(t, dir, "financial-backend.yaml",
		"database:\n  driver: sqlite\n  dsn: "+filepath.Join(dir, "data", "reports.db")+"\nserver:\n  maxBodySize: 256K\n")

	conf, err := config.LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	s, err := store.Open(conf.Database, zap.NewNop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	entries, err := importer.LoadFile(writeFile(t, dir, "budget.yaml", budgetYAML), "2025")
	if err != nil {
		t.Fatalf("importer.LoadFile() error = %v", err)
	}
	if err := s.ReplaceBudgetYear(ctx, "2025", entries); err != nil {
		t.Fatalf("ReplaceBudgetYear() error = %v", err)
	}

	return server.NewHandler(zap.NewNop(), s, server.Options{MaxBodySize: conf.Server.MaxBodySizeBytes()})
}

func request(t *testing.T, h http.Handler, method, path, body string) map[string]json.RawMessage {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("%s %s: status %d body %s", method, path, rr.Code, rr.Body.String())
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestEndToEndAnnotation(t *testing.T) {
	h := setup(t)

	tests := []struct {
		name     string
		table    string
		period   string
		data     string
		contains []string
	}{
		{
			name:     "Segment progress",
			table:    "bad_debt_provision_situation",
			period:   "2025-06",
			data:     `[{"category":"设备","customerType":"上海","finalBalance":250}]`,
			contains: []string{`"yearlyPlan":1000`, `"progress":"25.00%"`},
		},
		{
			name:     "Grouped orders",
			table:    "new_orders",
			period:   "2025-02",
			data:     `{"components":[{"customer":"北京","currentTotal":100}],"engineering":[{"customer":"南京"}]}`,
			contains: []string{`"yearlyPlan":2500`, `"yearlyPlan":0`},
		},
		{
			name:     "Zero plan reports zero percent",
			table:    "non_main_business_net_profit_contribution",
			period:   "2025-12",
			data:     `[{"name":"租赁收入","actual":40},{"name":"其他"}]`,
			contains: []string{`"progress":"0.00%"`},
		},
		{
			name:     "Other year has no plan",
			table:    "bad_debt_provision_situation",
			period:   "2024-06",
			data:     `[{"category":"设备","customerType":"上海","finalBalance":250}]`,
			contains: []string{`"yearlyPlan":0`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request(t, h, http.MethodPost, "/api/reports/"+tt.table, `{"period":"`+tt.period+`","data":`+tt.data+`}`)
			resp := request(t, h, http.MethodGet, "/api/reports/"+tt.table+"/"+tt.period, "")

			data := string(resp["data"])
			for _, want := range tt.contains {
				if !strings.Contains(data, want) {
					t.Errorf("expected %s in %s", want, data)
				}
			}
		})
	}
}

func TestStoredPayloadIsNotAnnotated(t *testing.T) {
	h := setup(t)

	request(t, h, http.MethodPost, "/api/reports/bad_debt_provision_situation",
		`{"period":"2025-06","data":[{"category":"设备","customerType":"上海","finalBalance":250}]}`)
	request(t, h, http.MethodGet, "/api/reports/bad_debt_provision_situation/2025-06", "")

	resp := request(t, h, http.MethodPost, "/api/reports/bad_debt_provision_situation",
		`{"period":"2025-07","data":[]}`)
	if !strings.Contains(string(resp["message"]), "saved") {
		t.Fatalf("unexpected save response %v", resp)
	}

	// Reading twice must not accumulate fields in storage.
	first := request(t, h, http.MethodGet, "/api/reports/bad_debt_provision_situation/2025-06", "")
	second := request(t, h, http.MethodGet, "/api/reports/bad_debt_provision_situation/2025-06", "")
	if string(first["data"]) != string(second["data"]) {
		t.Fatalf("annotation is not stable: %s vs %s", first["data"], second["data"])
	}
}
