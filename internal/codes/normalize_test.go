package codes

import "testing"

func TestNormalizePrefix(t *testing.T) {
	if got := Normalize("100101", 2); got != "10" {
		t.Fatalf("expected group prefix 10 got %q", got)
	}
	if got := Normalize("100101", 4); got != "1001" {
		t.Fatalf("expected general prefix 1001 got %q", got)
	}
	if got := Normalize("100101", 6); got != "100101" {
		t.Fatalf("expected full specific got %q", got)
	}
}

func TestNormalizeShortInput(t *testing.T) {
	if got := Normalize("100", 4); got != "100" {
		t.Fatalf("short input should return available prefix, got %q", got)
	}
	if got := Normalize("", 4); got != "" {
		t.Fatalf("empty input should stay empty, got %q", got)
	}
	if got := Normalize("1001", 0); got != "" {
		t.Fatalf("zero width should yield empty, got %q", got)
	}
}

func TestNormalizeFoldsLocalizedDigits(t *testing.T) {
	if got := Normalize("۱۰۰۱۰۱", 4); got != "1001" {
		t.Fatalf("persian digits should fold, got %q", got)
	}
	if got := Normalize("٢٠٥", 2); got != "20" {
		t.Fatalf("arabic-indic digits should fold, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "1", "100101", "۱۲۳۴۵۶۷", "abc123", "٠٩٨٧"}
	for _, raw := range inputs {
		for _, width := range []int{1, 2, 4, 6} {
			once := Normalize(raw, width)
			twice := Normalize(once, width)
			if once != twice {
				t.Fatalf("normalize not idempotent for %q width %d: %q vs %q", raw, width, once, twice)
			}
		}
	}
}
