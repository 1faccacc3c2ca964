package timeutil

import "testing"

func TestParseDate(t *testing.T) {
	when, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if when.Year() != 2024 || when.Month() != 1 || when.Day() != 1 {
		t.Fatalf("unexpected date: %v", when)
	}

	if _, err := ParseDate("2024-01-01T10:30:00Z"); err != nil {
		t.Fatalf("ParseDate rfc3339: %v", err)
	}

	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected empty date rejected")
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatalf("expected garbage date rejected")
	}
}
