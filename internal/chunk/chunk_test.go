package chunk

import "testing"

func TestNewRejectsInvalidLineRange(t *testing.T) {
	_, err := New("x", "go", EntityFunction, "f", "f.go", 0, 1, 0, 1, nil)
	if err == nil {
		t.Fatalf("expected error for start_line < 1")
	}

	_, err = New("x", "go", EntityFunction, "f", "f.go", 5, 4, 0, 1, nil)
	if err == nil {
		t.Fatalf("expected error for end_line < start_line")
	}
}

func TestNewRejectsInvalidByteRange(t *testing.T) {
	_, err := New("x", "go", EntityFunction, "f", "f.go", 1, 1, -1, 1, nil)
	if err == nil {
		t.Fatalf("expected error for start_byte < 0")
	}

	_, err = New("x", "go", EntityFunction, "f", "f.go", 1, 1, 10, 5, nil)
	if err == nil {
		t.Fatalf("expected error for end_byte < start_byte")
	}
}

func TestNewDefensivelyCopiesAttributes(t *testing.T) {
	attrs := NewAttributeMap().Set(AttrParameters, "a, b")
	c, err := New("x", "go", EntityFunction, "f", "f.go", 1, 1, 0, 1, attrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attrs.Set(AttrParameters, "mutated")
	if v, _ := c.Attributes.Get(AttrParameters); v != "a, b" {
		t.Fatalf("expected chunk's copy to be unaffected by caller mutation, got %q", v)
	}
}

func TestDedupKeyDistinguishesByRange(t *testing.T) {
	a, _ := New("x", "go", EntityFunction, "f", "f.go", 1, 1, 0, 5, nil)
	b, _ := New("x", "go", EntityFunction, "f", "f.go", 2, 2, 5, 10, nil)
	if a.DedupKey() == b.DedupKey() {
		t.Fatalf("expected distinct dedup keys for disjoint ranges of the same name")
	}

	c, _ := New("x", "go", EntityFunction, "g", "f.go", 1, 1, 0, 5, nil)
	if a.DedupKey() == c.DedupKey() {
		t.Fatalf("expected distinct dedup keys for different entity names at the same range")
	}
}

func TestEqualComparesAttributes(t *testing.T) {
	a, _ := New("x", "go", EntityFunction, "f", "f.go", 1, 1, 0, 1, NewAttributeMap().Set(AttrReturnType, "int"))
	b, _ := New("x", "go", EntityFunction, "f", "f.go", 1, 1, 0, 1, NewAttributeMap().Set(AttrReturnType, "string"))
	if a.Equal(b) {
		t.Fatalf("expected chunks with different attributes to be unequal")
	}
}
