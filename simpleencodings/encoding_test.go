package simpleencodings

import "testing"

func TestStandardEncoding(t *testing.T) {
	if name, ok := StandardEncoding.Lookup(0x41); !ok || name != "A" {
		t.Fatalf("expected A at 0x41, got %q, %v", name, ok)
	}
	if name, ok := StandardEncoding.Lookup(0x20); !ok || name != "space" {
		t.Fatalf("expected space at 0x20, got %q, %v", name, ok)
	}
	if _, ok := StandardEncoding.Lookup(0x00); ok {
		t.Fatal("expected code 0x00 to be unbound")
	}
	if _, ok := StandardEncoding.Lookup(0x7f); ok {
		t.Fatal("expected code 0x7f (DEL) to be unbound")
	}
}

func TestStandardEncodingCount(t *testing.T) {
	n := 0
	for _, name := range StandardEncoding.Names {
		if name != "" {
			n++
		}
	}
	// Adobe StandardEncoding binds 149 codes (0x20-0x7e, plus the upper half).
	if n != 149 {
		t.Fatalf("expected 149 bound codes, got %d", n)
	}
}
