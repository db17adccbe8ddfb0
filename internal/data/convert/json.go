package convert

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONValue and JSONScan are the hooks domain packages use to build their
// own structured JSON column types with the same fail-open read policy.
func JSONValue(v interface{}) (driver.Value, error) { return jsonValue(v) }

func JSONScan(typeName string, src interface{}, dst interface{}) bool {
	return jsonScan(typeName, src, dst)
}

// jsonValue encodes v as the canonical JSON wire format. Encode failures
// are real errors: a value that cannot be serialized must not be written.
func jsonValue(v interface{}) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert: encode %T: %w", v, err)
	}
	return string(raw), nil
}

// jsonScan decodes a stored JSON column into dst. The storage boundary is
// normalized to one wire format (JSON text or bytes); anything else is a
// decode failure. On failure dst is left untouched and false is returned
// so the caller can reset to its empty default.
func jsonScan(typeName string, src interface{}, dst interface{}) bool {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return false
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		reportDecode(typeName, fmt.Errorf("unsupported source type %T", src))
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		reportDecode(typeName, err)
		return false
	}
	return true
}
