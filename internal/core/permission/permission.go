// Package permission holds the access-control policies as pure predicates
// over (actor, action, owner). A view-level permission is the OR of its
// configured policies; object-level checks on mutating actions must be
// granted by every configured object policy.
package permission

import "github.com/criticdb/review-api/internal/core/domain"

// Action names the operation being authorized.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Safe reports whether the action is non-mutating.
func (a Action) Safe() bool {
	return a == ActionList || a == ActionRetrieve
}

// Policy is a collection-level predicate: identity and role only, no object
// state.
type Policy func(actor domain.Actor, action Action) bool

// ObjectPolicy additionally sees the owner (author username) of the target
// object. Resources without an owner concept pass an empty owner.
type ObjectPolicy func(actor domain.Actor, action Action, owner string) bool

// ReadOnly grants any actor the safe actions and nothing else.
func ReadOnly(_ domain.Actor, action Action) bool {
	return action.Safe()
}

// Authenticated grants any signed-in actor.
func Authenticated(actor domain.Actor, _ Action) bool {
	return actor.Authenticated
}

// AdminOrSuper grants authenticated superusers, staff, and admin-role actors.
func AdminOrSuper(actor domain.Actor, _ Action) bool {
	return actor.Authenticated && actor.Elevated()
}

// RequireRole returns a policy granting collection access only to
// authenticated actors holding exactly the given role. Its object phase opens
// safe actions unconditionally and requires the same role match otherwise.
func RequireRole(role domain.Role) (Policy, ObjectPolicy) {
	collection := func(actor domain.Actor, _ Action) bool {
		return actor.Authenticated && actor.Role == role
	}
	object := func(actor domain.Actor, action Action, _ string) bool {
		return action.Safe() || (actor.Authenticated && actor.Role == role)
	}
	return collection, object
}

// OwnerOrElevated is the object policy for author-owned resources: safe
// actions are open; mutations require the author themself, a moderator, or
// an elevated actor.
func OwnerOrElevated(actor domain.Actor, action Action, owner string) bool {
	if action.Safe() {
		return true
	}
	return actor.Authenticated &&
		(actor.Elevated() || actor.IsModerator() || actor.Username == owner)
}

// Any ORs collection policies: the first grant wins.
func Any(policies ...Policy) Policy {
	return func(actor domain.Actor, action Action) bool {
		for _, p := range policies {
			if p(actor, action) {
				return true
			}
		}
		return false
	}
}

// All ANDs object policies: every one must grant.
func All(policies ...ObjectPolicy) ObjectPolicy {
	return func(actor domain.Actor, action Action, owner string) bool {
		for _, p := range policies {
			if !p(actor, action, owner) {
				return false
			}
		}
		return true
	}
}

// Per-resource entry points consulted by the services. Collection checks run
// before parent resolution and creation; object checks run against a loaded
// instance before update/delete.

var (
	// catalogPolicy guards categories, genres and titles: reads open to
	// anyone, writes for admin-tier actors only. There is no owner concept,
	// so the object phase re-applies the same policy.
	catalogPolicy = Any(ReadOnly, AdminOrSuper)

	// reviewCollectionPolicy guards review and comment collections: reads
	// open, creation for any authenticated actor.
	reviewCollectionPolicy = Any(ReadOnly, Authenticated)

	// reviewObjectPolicy guards a single review or comment. Both configured
	// policies must grant on mutations: authenticated-or-read-only and
	// owner-or-elevated.
	reviewObjectPolicy = All(
		func(actor domain.Actor, action Action, _ string) bool {
			return action.Safe() || actor.Authenticated
		},
		OwnerOrElevated,
	)
)

// Catalog authorizes collection and object actions on categories, genres and
// titles.
func Catalog(actor domain.Actor, action Action) bool {
	return catalogPolicy(actor, action)
}

// Users authorizes the admin-facing user surface.
func Users(actor domain.Actor, action Action) bool {
	return AdminOrSuper(actor, action)
}

// ReviewCollection authorizes list/create on reviews and comments.
func ReviewCollection(actor domain.Actor, action Action) bool {
	return reviewCollectionPolicy(actor, action)
}

// ReviewObject authorizes actions on one review or comment owned by owner.
func ReviewObject(actor domain.Actor, action Action, owner string) bool {
	return reviewObjectPolicy(actor, action, owner)
}
