package convert

import (
	"database/sql/driver"
	"hash/fnv"
	"math"
)

// AxisTotals maps a compass axis name to its accumulated score. Stored as
// a JSON column.
type AxisTotals map[string]float64

func (AxisTotals) GormDataType() string { return "jsonb" }

func (t AxisTotals) Value() (driver.Value, error) {
	if t == nil {
		return jsonValue(AxisTotals{})
	}
	return jsonValue(map[string]float64(t))
}

func (t *AxisTotals) Scan(src interface{}) error {
	out := map[string]float64{}
	if !jsonScan("AxisTotals", src, &out) {
		*t = AxisTotals{}
		return nil
	}
	*t = AxisTotals(out)
	return nil
}

// Equal is order-independent: two totals maps are equal when they hold the
// same axis keys with the same scores.
func (t AxisTotals) Equal(other AxisTotals) bool {
	if len(t) != len(other) {
		return false
	}
	for axis, score := range t {
		got, ok := other[axis]
		if !ok || got != score {
			return false
		}
	}
	return true
}

// Hash accumulates per-entry hashes commutatively so iteration order does
// not affect the result.
func (t AxisTotals) Hash() uint64 {
	var acc uint64
	for axis, score := range t {
		h := fnv.New64a()
		h.Write([]byte(axis))
		h.Write([]byte{0})
		var buf [8]byte
		bits := math.Float64bits(score)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
		acc += h.Sum64()
	}
	return acc
}
