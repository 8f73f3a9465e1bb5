package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// categories is a list of strings stored as json text
type categories []string

// Value implements driver.Valuer
func (c categories) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(c))
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (c *categories) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported categories type %T", src)
	}
	var res []string
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("unmarshal categories: %w", err)
	}
	*c = res
	return nil
}
