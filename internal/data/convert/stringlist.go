package convert

import (
	"database/sql/driver"
	"fmt"
	"hash/fnv"
	"strings"
)

// stringListDelimiter is part of the wire format. Elements containing it
// cannot be stored; Value rejects them instead of corrupting the column.
const stringListDelimiter = ","

// StringList is a flat, order-preserving string list stored as a single
// delimited text column.
type StringList []string

func (StringList) GormDataType() string { return "text" }

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	for _, elem := range l {
		if strings.Contains(elem, stringListDelimiter) {
			return nil, fmt.Errorf("convert: string list element %q contains delimiter %q", elem, stringListDelimiter)
		}
	}
	return strings.Join(l, stringListDelimiter), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		*l = StringList{}
		reportDecode("StringList", fmt.Errorf("unsupported source type %T", src))
		return nil
	}

	out := StringList{}
	for _, seg := range strings.Split(raw, stringListDelimiter) {
		if seg == "" {
			continue
		}
		out = append(out, seg)
	}
	*l = out
	return nil
}

// Equal reports sequence equality. Order matters.
func (l StringList) Equal(other StringList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Hash is order-stable: permutations of the same elements hash differently.
func (l StringList) Hash() uint64 {
	h := fnv.New64a()
	for _, elem := range l {
		h.Write([]byte(elem))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
