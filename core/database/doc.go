// Package database handles inventory database connections and schema inspection.
//
// It wraps GORM and configures MySQL, PostgreSQL or SQLite connections from the
// application configuration. SQLite is mainly used for local runs and tests.
//
// # Schema Inspection
//
// GetTableColumns reads the live column definitions of a table for every supported
// dialect. MissingColumns compares them with the columns the inventory store expects,
// which backs the `schema` command.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "interfaces", []string{"id", "name"})
package database
