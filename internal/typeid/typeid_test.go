package typeid

import (
	"strings"
	"testing"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	tests := []struct {
		gen    func() string
		prefix string
	}{
		{NewLayerID, PrefixLayer},
		{NewGroupID, PrefixGroup},
		{NewShapeID, PrefixShape},
		{NewSessionID, PrefixSession},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Errorf("id %q lacks prefix %q", id, tt.prefix)
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewShapeID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestValidateRejects(t *testing.T) {
	if err := Validate(NewShapeID(), PrefixLayer); err == nil {
		t.Error("expected prefix mismatch error")
	}
	if err := Validate("not an id", PrefixShape); err == nil {
		t.Error("expected parse error")
	}
}
