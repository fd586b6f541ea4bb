package grammar

import "testing"

func TestSHA256HexMatchesKnownDigest(t *testing.T) {
	const want = "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
	if got := SHA256Hex([]byte("Hello, World!")); got != want {
		t.Fatalf("SHA256Hex(%q) = %s, want %s", "Hello, World!", got, want)
	}
}

func TestIsRetryableDistinguishesIntegrityFailure(t *testing.T) {
	if isRetryable(ErrIntegrityFailure) {
		t.Fatalf("integrity failures must never be retried")
	}
	if !isRetryable(ErrIoError) {
		t.Fatalf("io errors should be retried")
	}
}
