package utils

import "testing"

func TestComparePasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(string(hashed), "s3cret"); err != nil {
		t.Fatalf("expected matching password to pass; got %v", err)
	}
	if err := ComparePassword(string(hashed), "wrong"); err == nil {
		t.Fatalf("expected mismatched password to fail")
	}
}

// A profile row provisioned before any password is set carries an empty hash.
// Comparison must fail for every candidate password, not only on a mismatch.
func TestComparePasswordEmptyHash(t *testing.T) {
	if err := ComparePassword("", "any-password"); err == nil {
		t.Fatalf("expected empty hash to reject")
	}
	if err := ComparePassword("", ""); err == nil {
		t.Fatalf("expected empty hash to reject empty password")
	}
}
