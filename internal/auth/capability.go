// ABOUTME: Capability resolution from role sets
// ABOUTME: Pure mapping of roles to the four fixed wiki permissions

package auth

// Role names understood by the resolver. Unknown roles contribute no
// capability.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleWriter = "writer"
)

// Capabilities is the fixed set of permissions a principal can hold.
// The JSON tags double as the claim names frozen into issued tokens.
type Capabilities struct {
	CanRead   bool `json:"read"`
	CanCreate bool `json:"create"`
	CanUpdate bool `json:"update"`
	CanDelete bool `json:"delete"`
}

// Resolve maps a role set to capabilities. Every authenticated principal can
// read; writer adds update; editor adds create, update and delete; admin
// grants everything. The result is deterministic and independent of role
// order or duplicates.
func Resolve(roles []string) Capabilities {
	caps := Capabilities{CanRead: true}

	for _, role := range roles {
		switch role {
		case RoleAdmin:
			return Capabilities{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true}
		case RoleEditor:
			caps.CanCreate = true
			caps.CanUpdate = true
			caps.CanDelete = true
		case RoleWriter:
			caps.CanUpdate = true
		}
	}

	return caps
}
