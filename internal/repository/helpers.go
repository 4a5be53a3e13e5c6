package repository

import (
	"database/sql"
	"fmt"
)

// requireRowAffected maps an update or delete that touched no rows to
// sql.ErrNoRows so services can translate it to a not-found error.
func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
