//go:build !cgo_sqlite

package jtl

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// sqliteDriverName is the database/sql driver registered by modernc.org/sqlite.
const sqliteDriverName = "sqlite"

func openSQLite(dataSource string) (*sql.DB, error) {
	return sql.Open(sqliteDriverName, dataSource)
}
