package engine

import (
	"context"
	"testing"
)

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	e := NewOPAEvaluator()
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOPAEvaluator_Allow(t *testing.T) {
	e := NewOPAEvaluator()
	ctx := context.Background()

	tests := []struct {
		name    string
		role    string
		allowed []string
		want    bool
	}{
		{"role in allowed set", "admin", []string{"superadmin", "admin", "manager"}, true},
		{"role not in allowed set", "user", []string{"superadmin", "admin", "manager"}, false},
		{"single allowed role match", "superadmin", []string{"superadmin"}, true},
		{"single allowed role mismatch", "admin", []string{"superadmin"}, false},
		{"empty allowed set", "admin", nil, false},
		{"empty role", "", []string{"superadmin", "admin"}, false},
		{"case sensitive", "Admin", []string{"admin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Allow(ctx, tt.role, tt.allowed)
			if err != nil {
				t.Fatalf("Allow: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allow(%q, %v) = %v, want %v", tt.role, tt.allowed, got, tt.want)
			}
		})
	}
}
