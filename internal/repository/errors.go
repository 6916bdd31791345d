// Package repository holds the MySQL access layer.  Repositories return
// the sentinel errors below so services can tell apart "nothing there",
// "unique key hit" and "row changed under us" without inspecting driver
// errors themselves.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update hits a unique index.
var ErrDuplicate = errors.New("duplicate")

// ErrStaleState is returned when a guarded update finds the row no longer
// in the expected state (a compare-and-set miss, or a used/expired token).
var ErrStaleState = errors.New("stale state")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// mapErr converts driver errors into the sentinels above.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isDuplicateKey(err):
		return ErrDuplicate
	}
	return err
}

// rollback is deferred by transactional methods; it is a no-op once the
// transaction has been committed.
func rollback(tx *sql.Tx, committed *bool) {
	if !*committed {
		_ = tx.Rollback()
	}
}
