// Package convert holds the custom column types that translate in-memory
// collection values to and from their storage representations. Reads are
// fail-open: a corrupt stored value decodes to the type's empty default and
// is reported through the diagnostic hook, so reference data stays
// readable even when a single row is damaged. Writes are strict.
package convert

import "sync/atomic"

// DecodeDiagnostic is invoked whenever a stored value cannot be decoded
// and the converter falls back to its empty default.
type DecodeDiagnostic func(typeName string, err error)

var decodeDiag atomic.Value // DecodeDiagnostic

// SetDecodeDiagnostic installs the process-wide decode diagnostic hook.
// Passing nil clears it.
func SetDecodeDiagnostic(fn DecodeDiagnostic) {
	if fn == nil {
		decodeDiag.Store(DecodeDiagnostic(func(string, error) {}))
		return
	}
	decodeDiag.Store(fn)
}

func reportDecode(typeName string, err error) {
	if fn, ok := decodeDiag.Load().(DecodeDiagnostic); ok && fn != nil {
		fn(typeName, err)
	}
}
