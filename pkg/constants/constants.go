// Package constants provides shared constants for the financial reporting backend.
package constants

// MonthLayout is the layout of a monthly reporting period.
const MonthLayout = "2006-01"

// YearLayout is the layout of a yearly reporting period.
const YearLayout = "2006"

// Business category labels as stored in budget_planning.category.
const (
	CategoryEquipment   = "设备"
	CategoryComponents  = "元件"
	CategoryEngineering = "工程"
	CategoryRevenue     = "营业收入"
	CategoryNonMain     = "非主营业务"

	// CategoryNetProfit prefixes net profit structure budget keys.
	CategoryNetProfit = "净利润"

	// CategoryDepartmentCostCenter prefixes department cost center budget keys.
	CategoryDepartmentCostCenter = "部门成本中心"
)

// Progress formatting constants
const (
	// ProgressNotApplicable is reported when the yearly plan is zero or negative.
	ProgressNotApplicable = "/"

	// ProgressZero is the zero progress value used by the non-main net profit contribution table.
	ProgressZero = "0.00%"

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "financial-backend.yaml"

	// EnvPrefix is the prefix of environment variable overrides, e.g. FINBACKEND_DATABASE_DSN.
	EnvPrefix = "FINBACKEND"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":3000"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body size (1 MB)
	DefaultMaxBodySizeBytes int64 = 1024 * 1024

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown.
	DefaultShutdownTimeoutSeconds = 10
)

// Database configuration defaults
const (
	// DriverMySQL selects github.com/go-sql-driver/mysql.
	DriverMySQL = "mysql"

	// DriverSQLite selects modernc.org/sqlite.
	DriverSQLite = "sqlite"

	// DefaultDriver is the driver used when none is configured.
	DefaultDriver = DriverSQLite

	// DefaultDSN is the SQLite database used when no DSN is configured.
	DefaultDSN = "financial-backend.db"

	// DefaultMaxOpenConns caps the connection pool.
	DefaultMaxOpenConns = 10

	// DefaultMaxIdleConns caps idle pooled connections.
	DefaultMaxIdleConns = 5
)

// Output format constants
const (
	// OutputFormatPretty represents the pretty output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV represents the CSV output format
	OutputFormatCSV = "csv"
)
