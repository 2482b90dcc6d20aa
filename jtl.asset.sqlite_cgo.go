//go:build cgo_sqlite

package jtl

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteDriverName is the database/sql driver registered by github.com/mattn/go-sqlite3.
const sqliteDriverName = "sqlite3"

func openSQLite(dataSource string) (*sql.DB, error) {
	return sql.Open(sqliteDriverName, dataSource)
}
