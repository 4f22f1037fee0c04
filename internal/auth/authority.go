// Package auth holds the role-membership state that gates every mutating
// ledger operation.
package auth

import (
	"errors"
	"sync"
)

// Role names a capability a caller may hold.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RolePlanner      Role = "PLANNER"
	RoleUpgradeAdmin Role = "UPGRADE_ADMIN"
)

var ErrUnauthorized = errors.New("unauthorized")

// AuthorityStore is process-wide role state injected into each ledger.
// A single root administrator passes every check and is the only identity
// allowed to grant or revoke roles.
type AuthorityStore struct {
	mu    sync.RWMutex
	root  int64
	roles map[int64]map[Role]struct{}
}

func NewAuthorityStore(root int64) *AuthorityStore {
	return &AuthorityStore{
		root:  root,
		roles: make(map[int64]map[Role]struct{}),
	}
}

// Root returns the root administrator identity.
func (s *AuthorityStore) Root() int64 {
	return s.root
}

// HasRole reports whether caller holds role. Root holds every role.
func (s *AuthorityStore) HasRole(caller int64, role Role) bool {
	if caller == s.root {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.roles[caller][role]
	return ok
}

// Require fails with ErrUnauthorized unless caller holds at least one of
// the given roles.
func (s *AuthorityStore) Require(caller int64, roles ...Role) error {
	for _, role := range roles {
		if s.HasRole(caller, role) {
			return nil
		}
	}
	return ErrUnauthorized
}

// Grant gives target the role. Only root may grant.
func (s *AuthorityStore) Grant(caller, target int64, role Role) error {
	if caller != s.root {
		return ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roles[target] == nil {
		s.roles[target] = make(map[Role]struct{})
	}
	s.roles[target][role] = struct{}{}
	return nil
}

// Revoke removes the role from target. Only root may revoke.
func (s *AuthorityStore) Revoke(caller, target int64, role Role) error {
	if caller != s.root {
		return ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles[target], role)
	return nil
}
