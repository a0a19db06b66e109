// Package authz holds the single authorization decision function for the
// marketplace. Every mutating or privileged read operation consults
// Authorize before touching the store; handlers and services never compare
// roles on their own.
package authz

import (
	"fmt"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// Action identifies an operation being authorized.
type Action string

const (
	ActionCreateListing  Action = "listing:create"
	ActionReadListing    Action = "listing:read"
	ActionUpdateListing  Action = "listing:update"
	ActionDeleteListing  Action = "listing:delete"
	ActionApproveListing Action = "listing:approve"
	ActionReadApproved   Action = "listing:read_approved"
	ActionListMine       Action = "listing:list_mine"
	ActionListPending    Action = "listing:list_pending"
	ActionListAll        Action = "listing:list_all"

	ActionApproveUser      Action = "user:approve"
	ActionRejectUser       Action = "user:reject"
	ActionListUsers        Action = "user:list"
	ActionListPendingUsers Action = "user:list_pending"
	ActionReadUser         Action = "user:read"
	ActionDeleteUser       Action = "user:delete"
)

// Decision is the outcome of an authorization check. A deny carries a
// human-readable reason and always surfaces as a 403, never a server fault.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err converts a deny into the domain's forbidden error, carrying the reason.
// Calling Err on an allow returns nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
}

// Resource carries the ownership facts the policy needs. A zero Resource is
// used for actions that do not target a specific record.
type Resource struct {
	OwnerID string
	// TargetUserID is set for user-directed actions (read/delete user).
	TargetUserID string
}

// Authorize decides whether actor may perform action on resource. actor is
// nil for anonymous requests. Rules are evaluated in priority order; buyers
// and anonymous callers are equivalent for listing reads.
func Authorize(actor *domain.User, action Action, resource Resource) Decision {
	switch action {
	case ActionCreateListing:
		if actor == nil {
			return deny("login required to create a listing")
		}
		if actor.Role != domain.RoleFarmer {
			return deny("only farmers can create listings")
		}
		return allow()

	case ActionApproveListing, ActionListPending, ActionListAll,
		ActionApproveUser, ActionRejectUser, ActionListUsers,
		ActionListPendingUsers, ActionDeleteUser:
		return adminOnly(actor)

	case ActionUpdateListing, ActionDeleteListing:
		if actor == nil {
			return deny("login required")
		}
		if actor.IsAdmin() || actor.ID == resource.OwnerID {
			return allow()
		}
		return deny("only the owner or an admin can modify this listing")

	// ActionReadListing gates single reads of listings that are not yet
	// publicly visible; approved reads never reach the policy.
	case ActionReadListing:
		if actor == nil {
			return deny("login required")
		}
		if actor.IsAdmin() || actor.ID == resource.OwnerID {
			return allow()
		}
		return deny("only the owner or an admin can view this listing")

	case ActionReadApproved:
		return allow()

	case ActionListMine:
		if actor == nil {
			return deny("login required")
		}
		return allow()

	case ActionReadUser:
		if actor == nil {
			return deny("login required")
		}
		if actor.IsAdmin() || actor.ID == resource.TargetUserID {
			return allow()
		}
		return deny("only the account owner or an admin can view this user")
	}

	return deny("unknown action")
}

func adminOnly(actor *domain.User) Decision {
	if actor == nil {
		return deny("login required")
	}
	if !actor.IsAdmin() {
		return deny("admin access required")
	}
	return allow()
}
