package coords

import "testing"

func TestToByteOffsetSimpleAscii(t *testing.T) {
	src := "line one\nline two\nline three"
	sc := New(src)

	if got := sc.ToByteOffset(1, 1); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := sc.ToByteOffset(2, 1); got != len("line one\n") {
		t.Fatalf("expected %d, got %d", len("line one\n"), got)
	}
}

func TestToByteOffsetClampsOutOfRange(t *testing.T) {
	src := "abc\ndef"
	sc := New(src)

	if got := sc.ToByteOffset(100, 1); got != len("abc\n") {
		t.Fatalf("expected clamp to last line start, got %d", got)
	}
	if got := sc.ToByteOffset(1, 100); got != len("abc") {
		t.Fatalf("expected clamp to end of line 1, got %d", got)
	}
}

func TestToLineNumberInverse(t *testing.T) {
	src := "aaa\nbbb\nccc"
	sc := New(src)

	cases := []struct {
		offset int
		line   int
	}{
		{0, 1},
		{3, 1}, // the newline itself still belongs to line 1
		{4, 2},
		{8, 3},
	}
	for _, c := range cases {
		if got := sc.ToLineNumber(c.offset); got != c.line {
			t.Fatalf("offset %d: expected line %d, got %d", c.offset, c.line, got)
		}
	}
}

func TestMultiByteUTF8(t *testing.T) {
	src := "héllo\nwörld"
	sc := New(src)

	// 'h' 'é'(2 bytes) 'l' 'l' 'o' '\n' -> 'w' starts at byte 7, char 6
	if got := sc.ToByteOffset(2, 1); got != 7 {
		t.Fatalf("expected byte offset 7 for start of line 2, got %d", got)
	}
	if got := sc.ToCharOffset(2, 1); got != 6 {
		t.Fatalf("expected char offset 6 for start of line 2, got %d", got)
	}
}

func TestCRLFLineEndings(t *testing.T) {
	src := "one\r\ntwo\r\nthree"
	sc := New(src)

	if got := sc.ToByteOffset(2, 1); got != len("one\r\n") {
		t.Fatalf("expected %d, got %d", len("one\r\n"), got)
	}
	if got := sc.ToByteOffset(3, 1); got != len("one\r\ntwo\r\n") {
		t.Fatalf("expected %d, got %d", len("one\r\ntwo\r\n"), got)
	}
}

func TestSliceReturnsExpectedSubstring(t *testing.T) {
	src := "func add(a, b int) int {\n\treturn a + b\n}"
	sc := New(src)
	r := Range{Start: Position{Line: 1, Col: 1}, End: Position{Line: 1, Col: 24}}
	got := sc.Slice(r, src)
	want := "func add(a, b int) int {"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNoTrailingNewline(t *testing.T) {
	src := "only one line, no trailing newline"
	sc := New(src)
	if got := sc.ToLineNumber(len(src) - 1); got != 1 {
		t.Fatalf("expected line 1, got %d", got)
	}
	if got := sc.ByteSize(); got != len(src) {
		t.Fatalf("expected byte size %d, got %d", len(src), got)
	}
}
