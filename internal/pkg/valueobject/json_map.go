// Package valueobject holds small value types shared by entities.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrJSONMapScan is returned when a column value cannot be read as JSON.
var ErrJSONMapScan = errors.New("valueobject: unsupported jsonmap scan type")

// JSONMap is a JSON object stored in a jsonb column.
type JSONMap map[string]any

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case map[string]any:
		*j = v
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ErrJSONMapScan
	}

	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*j = out
	return nil
}

// String returns the value of key rendered as a string, "" when absent.
func (j JSONMap) String(key string) string {
	switch v := j[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Int64 returns the numeric value of key, 0 when absent or not a number.
func (j JSONMap) Int64(key string) int64 {
	switch v := j[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}
