package store

import "github.com/QingyuanL1/financial-backend-sub000/pkg/constants"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS budget_planning (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    period          TEXT NOT NULL,
    table_key       TEXT NOT NULL,
    category        TEXT NOT NULL,
    customer        TEXT NOT NULL,
    yearly_budget   DECIMAL(15,2) NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_budget_planning_lookup ON budget_planning(table_key, period);

CREATE TABLE IF NOT EXISTS report_data (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    table_key       TEXT NOT NULL,
    period          TEXT NOT NULL,
    data            TEXT NOT NULL,
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (table_key, period)
);
`

// MySQL executes one statement per Exec unless multiStatements is enabled
// in the DSN, so its schema is kept as separate statements.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS budget_planning (
    id              BIGINT AUTO_INCREMENT PRIMARY KEY,
    period          VARCHAR(4) NOT NULL,
    table_key       VARCHAR(100) NOT NULL,
    category        VARCHAR(100) NOT NULL,
    customer        VARCHAR(255) NOT NULL,
    yearly_budget   DECIMAL(15,2) NOT NULL DEFAULT 0,
    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    KEY idx_budget_planning_lookup (table_key, period)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS report_data (
    id              BIGINT AUTO_INCREMENT PRIMARY KEY,
    table_key       VARCHAR(100) NOT NULL,
    period          VARCHAR(7) NOT NULL,
    data            JSON NOT NULL,
    updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uk_report_data (table_key, period)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func schemaFor(driver string) []string {
	if driver == constants.DriverMySQL {
		return mysqlSchema
	}
	return []string{sqliteSchema}
}
