// Package identity expresses directory permissions as pure functions of
// (identity, action, resource). No ambient session state is consulted.
package identity

import "context"

// Role is the caller's access level.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleEditor    Role = "editor"
	RoleAdmin     Role = "admin"
)

// Identity describes the caller of a directory operation.
type Identity struct {
	Subject string
	Role    Role
}

// Anonymous is the identity of unauthenticated public traffic.
var Anonymous = Identity{Role: RoleAnonymous}

// Action is a directory operation subject to a permission check.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionVerify Action = "verify"
)

// Resource is the view of a clinic record a permission check needs.
type Resource struct {
	Verified bool
	Archived bool
}

// Can reports whether the identity may perform the action on the resource.
// Anonymous callers read only verified, non-archived listings; editors
// additionally create and update; verification and deletion are admin-only.
func Can(id Identity, action Action, res Resource) bool {
	switch id.Role {
	case RoleAdmin:
		return true
	case RoleEditor:
		switch action {
		case ActionRead, ActionCreate, ActionUpdate:
			return true
		}
		return false
	default:
		return action == ActionRead && res.Verified && !res.Archived
	}
}

type contextKey struct{}

// WithIdentity attaches the caller identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the caller identity, defaulting to Anonymous.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Anonymous
}
