// ABOUTME: Tests for principal context propagation
// ABOUTME: Covers round-trip, absent value, and wrong-type value

package auth

import (
	"context"
	"testing"
)

func TestWithPrincipal_RoundTrip(t *testing.T) {
	principal := &Principal{
		Login: "bar",
		Roles: []string{"writer"},
		Caps:  Resolve([]string{"writer"}),
	}

	ctx := WithPrincipal(context.Background(), principal)
	got := FromContext(ctx)

	if got == nil {
		t.Fatal("FromContext() = nil, want principal")
	}
	if got.Login != "bar" {
		t.Errorf("Login = %q, want %q", got.Login, "bar")
	}
	if got.Caps != principal.Caps {
		t.Errorf("Caps = %+v, want %+v", got.Caps, principal.Caps)
	}
}

func TestFromContext_Absent(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}

func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), principalKey{}, "not a principal")
	if got := FromContext(ctx); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}
