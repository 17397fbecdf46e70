package service

import (
	"fmt"

	"github.com/cookmate/backend/internal/model"
)

// Scope identifies which route tree a request came through. The admin tree
// bypasses ownership and globality checks; the user tree never does, even
// for callers holding the admin role.
type Scope int

const (
	ScopeUser Scope = iota
	ScopeAdmin
)

// authorizeMutation is the single ownership/globality policy shared by every
// mutation path. Callers check existence first and pass the entity's owner
// and global flag.
func authorizeMutation(scope Scope, callerID uint, callerRole string, ownerID *uint, isGlobal bool) error {
	if scope == ScopeAdmin {
		if callerRole != model.RoleAdmin {
			return fmt.Errorf("%w: admin role required", ErrForbidden)
		}
		return nil
	}
	if isGlobal {
		return fmt.Errorf("%w: cannot modify global entity", ErrForbidden)
	}
	if ownerID == nil || *ownerID != callerID {
		return fmt.Errorf("%w: not the owner", ErrForbidden)
	}
	return nil
}
