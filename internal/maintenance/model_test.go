package maintenance

import (
	"errors"
	"testing"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
)

func TestParseType(t *testing.T) {
	// 空串取默认值
	typ, err := ParseType("")
	if err != nil {
		t.Fatalf("ParseType empty: %v", err)
	}
	if typ != TypeMaintenance {
		t.Fatalf("expected default maintenance, got %s", typ)
	}

	for _, s := range []string{"maintenance", "repair", "inspection", "replacement", "other", " Repair "} {
		if _, err := ParseType(s); err != nil {
			t.Fatalf("ParseType %q: %v", s, err)
		}
	}

	if _, err := ParseType("tune-up"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown type, got %v", err)
	}
}
