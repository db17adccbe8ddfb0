package convert

import "testing"

func TestStringList_RoundTrip(t *testing.T) {
	in := StringList{"alpha", "beta", "gamma"}
	raw, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if raw != "alpha,beta,gamma" {
		t.Fatalf("unexpected stored form %q", raw)
	}

	var out StringList
	if err := out.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("round trip mismatch: %v != %v", out, in)
	}
}

func TestStringList_ValueRejectsDelimiterInElement(t *testing.T) {
	in := StringList{"ok", "not,ok"}
	if _, err := in.Value(); err == nil {
		t.Fatalf("expected error for element containing delimiter")
	}
}

func TestStringList_EmptyListStoresEmptyString(t *testing.T) {
	raw, err := StringList{}.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if raw != "" {
		t.Fatalf("expected empty string, got %q", raw)
	}

	var out StringList
	if err := out.Scan(""); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %v", out)
	}
}

func TestStringList_ScanDropsEmptySegments(t *testing.T) {
	var out StringList
	if err := out.Scan("a,,b,"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !out.Equal(StringList{"a", "b"}) {
		t.Fatalf("expected [a b], got %v", out)
	}
}

func TestStringList_ScanNilYieldsEmpty(t *testing.T) {
	var out StringList
	if err := out.Scan(nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected non-nil empty list, got %#v", out)
	}
}

func TestStringList_ScanUnsupportedTypeReportsDiagnostic(t *testing.T) {
	var reported string
	SetDecodeDiagnostic(func(typeName string, err error) { reported = typeName })
	defer SetDecodeDiagnostic(nil)

	var out StringList
	if err := out.Scan(42); err != nil {
		t.Fatalf("scan should fail open, got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty fallback, got %v", out)
	}
	if reported != "StringList" {
		t.Fatalf("expected diagnostic for StringList, got %q", reported)
	}
}

func TestStringList_HashIsOrderSensitive(t *testing.T) {
	a := StringList{"x", "y"}
	b := StringList{"y", "x"}
	if a.Hash() == b.Hash() {
		t.Fatalf("expected permutations to hash differently")
	}
	if a.Hash() != (StringList{"x", "y"}).Hash() {
		t.Fatalf("expected equal lists to hash equally")
	}
}

func TestStringList_HashSeparatesElementBoundaries(t *testing.T) {
	a := StringList{"ab", "c"}
	b := StringList{"a", "bc"}
	if a.Hash() == b.Hash() {
		t.Fatalf("expected different element boundaries to hash differently")
	}
}
