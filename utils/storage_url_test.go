package utils

import "testing"

func TestBuildObjectAccessURL(t *testing.T) {
	t.Setenv("STORAGE_ACCESS_BASE_URL", "")
	t.Setenv("GCS_URL", "storage.googleapis.com")
	t.Setenv("GCS_BUCKET", "pawnshop-media")

	got := BuildObjectAccessURL("intake-photos/1_1.jpg")
	want := "https://storage.googleapis.com/pawnshop-media/intake-photos/1_1.jpg"
	if got != want {
		t.Fatalf("expected %q; got %q", want, got)
	}

	t.Setenv("STORAGE_ACCESS_BASE_URL", "https://cdn.example.com/media/{objectKey}")
	got = BuildObjectAccessURL("intake-photos/1_1.jpg")
	if got != "https://cdn.example.com/media/intake-photos/1_1.jpg" {
		t.Fatalf("unexpected templated url %q", got)
	}

	t.Setenv("STORAGE_ACCESS_BASE_URL", "")
	t.Setenv("GCS_URL", "")
	t.Setenv("GCS_BUCKET", "")
	if got := BuildObjectAccessURL("intake-photos/1_1.jpg"); got != "intake-photos/1_1.jpg" {
		t.Fatalf("expected raw key fallback; got %q", got)
	}
}

func TestExtractObjectKeyFromURL(t *testing.T) {
	t.Setenv("GCS_URL", "")
	t.Setenv("GCS_BUCKET", "")

	cases := []struct {
		in   string
		want string
	}{
		{"intake-photos/1_1.jpg", "intake-photos/1_1.jpg"},
		{"intake-photos/../secret", ""},
		{"gs://pawnshop-media/intake-photos/1_1.jpg", "intake-photos/1_1.jpg"},
		{"https://storage.googleapis.com/pawnshop-media/intake-photos/1_1.jpg", "intake-photos/1_1.jpg"},
		{"https://pawnshop-media.storage.googleapis.com/intake-photos/1_1.jpg", "intake-photos/1_1.jpg"},
		{"https://unknown.example.com/whatever.jpg", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractObjectKeyFromURL(tc.in); got != tc.want {
			t.Fatalf("ExtractObjectKeyFromURL(%q): expected %q; got %q", tc.in, tc.want, got)
		}
	}
}
