package utils

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RowLock applies a row-level pessimistic lock (SELECT ... FOR UPDATE) on
// engines that support it. SQLite serializes writers at the connection level
// and rejects the FOR UPDATE syntax, so the clause is skipped there; the
// in-memory test database stays correct because it admits a single writer.
func RowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
