package auth

import (
	"errors"
	"testing"
)

func TestRootHoldsEveryRole(t *testing.T) {
	s := NewAuthorityStore(1)
	for _, r := range []Role{RoleAdmin, RolePlanner, RoleUpgradeAdmin} {
		if !s.HasRole(1, r) {
			t.Fatalf("root should hold %s", r)
		}
	}
	if err := s.Require(1, RoleAdmin); err != nil {
		t.Fatalf("root Require failed: %v", err)
	}
}

func TestGrantRevoke(t *testing.T) {
	s := NewAuthorityStore(1)

	if s.HasRole(2, RolePlanner) {
		t.Fatalf("fresh identity should hold no roles")
	}
	if err := s.Grant(1, 2, RolePlanner); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !s.HasRole(2, RolePlanner) {
		t.Fatalf("expected planner role after grant")
	}
	if s.HasRole(2, RoleAdmin) {
		t.Fatalf("grant must not leak other roles")
	}

	if err := s.Revoke(1, 2, RolePlanner); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if s.HasRole(2, RolePlanner) {
		t.Fatalf("expected role gone after revoke")
	}
}

func TestOnlyRootAdministersRoles(t *testing.T) {
	s := NewAuthorityStore(1)
	if err := s.Grant(2, 3, RoleAdmin); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-root grant err = %v; want ErrUnauthorized", err)
	}
	if err := s.Revoke(2, 1, RoleAdmin); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-root revoke err = %v; want ErrUnauthorized", err)
	}
}

func TestRequireAnyOf(t *testing.T) {
	s := NewAuthorityStore(1)
	_ = s.Grant(1, 5, RoleUpgradeAdmin)

	if err := s.Require(5, RoleAdmin, RoleUpgradeAdmin); err != nil {
		t.Fatalf("Require any-of failed: %v", err)
	}
	if err := s.Require(5, RoleAdmin, RolePlanner); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Require err = %v; want ErrUnauthorized", err)
	}
}
