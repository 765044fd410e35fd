package repository

import (
	"database/sql"
	"fmt"
)

// requireAffected returns notFound when a write matched no rows
func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
