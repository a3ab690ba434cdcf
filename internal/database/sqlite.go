package database

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName is the database/sql driver registered by SQLiteDialector.
// Its connections carry the unicode_lower SQL function.
const SQLiteDriverName = "sqlite3_langportal"

var registerSQLiteDriver sync.Once

// SQLiteDialector opens dsn through the langportal driver. SQLite's LOWER
// folds ASCII only, so text search uses unicode_lower instead.
func SQLiteDialector(dsn string) gorm.Dialector {
	registerSQLiteDriver.Do(func() {
		sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
			},
		})
	})
	return sqlite.Dialector{DriverName: SQLiteDriverName, DSN: dsn}
}

// LowerFunc names the SQL function that lowercases text the way
// strings.ToLower does on the engine behind db.
func LowerFunc(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "unicode_lower"
	}
	return "LOWER"
}
