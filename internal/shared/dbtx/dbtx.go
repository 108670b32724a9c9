package dbtx

import (
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle that runs its statements on tx. Services own
// the *sql.Tx (begin, commit, rollback); repositories only borrow it.
// A nil tx returns db unchanged.
func Bind(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	bound := db.Session(&gorm.Session{NewDB: true})
	bound.Statement.ConnPool = tx
	return bound
}
