// ABOUTME: Unit tests for capability resolution
// ABOUTME: Covers the role truth table, order independence, and admin monotonicity

package auth

import (
	"math/rand"
	"testing"
)

func TestResolve_RoleTable(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  Capabilities
	}{
		{
			name:  "no roles reads only",
			roles: nil,
			want:  Capabilities{CanRead: true},
		},
		{
			name:  "writer reads and updates",
			roles: []string{"writer"},
			want:  Capabilities{CanRead: true, CanUpdate: true},
		},
		{
			name:  "editor gets everything but via explicit grants",
			roles: []string{"editor"},
			want:  Capabilities{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true},
		},
		{
			name:  "admin implies all",
			roles: []string{"admin"},
			want:  Capabilities{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true},
		},
		{
			name:  "unknown roles contribute nothing",
			roles: []string{"janitor", "stranger"},
			want:  Capabilities{CanRead: true},
		},
		{
			name:  "writer plus editor unions",
			roles: []string{"writer", "editor"},
			want:  Capabilities{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true},
		},
		{
			name:  "duplicates are harmless",
			roles: []string{"writer", "writer"},
			want:  Capabilities{CanRead: true, CanUpdate: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.roles)
			if got != tt.want {
				t.Errorf("Resolve(%v) = %+v, want %+v", tt.roles, got, tt.want)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	roles := []string{"writer", "editor"}
	first := Resolve(roles)
	for i := 0; i < 10; i++ {
		if got := Resolve(roles); got != first {
			t.Fatalf("Resolve() not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	roles := []string{"writer", "editor", "janitor"}
	want := Resolve(roles)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), roles...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Resolve(shuffled); got != want {
			t.Fatalf("Resolve(%v) = %+v, want %+v", shuffled, got, want)
		}
	}
}

func TestResolve_AdminMonotonic(t *testing.T) {
	// Adding admin to any role set must yield all four capabilities.
	roleSets := [][]string{
		nil,
		{"writer"},
		{"editor"},
		{"janitor"},
		{"writer", "editor"},
	}

	all := Capabilities{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true}
	for _, roles := range roleSets {
		withAdmin := append(append([]string(nil), roles...), "admin")
		if got := Resolve(withAdmin); got != all {
			t.Errorf("Resolve(%v) = %+v, want all capabilities", withAdmin, got)
		}
	}
}

func TestResolve_WriterScenario(t *testing.T) {
	// The bar/writer account may read and update but neither create nor delete.
	got := Resolve([]string{"writer"})

	if !got.CanRead {
		t.Error("writer should have read")
	}
	if got.CanCreate {
		t.Error("writer should not have create")
	}
	if !got.CanUpdate {
		t.Error("writer should have update")
	}
	if got.CanDelete {
		t.Error("writer should not have delete")
	}
}
