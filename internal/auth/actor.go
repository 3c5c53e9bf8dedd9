package auth

import (
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
)

// Actor is the authenticated user of a request.
type Actor struct {
	ID       uint64
	Username string
	Role     rbac.Role
}

// NewActor returns the Actor of u. Unknown or empty roles become rbac.RoleViewer.
func NewActor(u *models.User) Actor {
	return Actor{
		ID:       u.ID,
		Username: u.Username,
		Role:     rbac.NormalizeRole(u.Role),
	}
}

// IsSuperAdmin reports whether the actor holds the top role.
func (a Actor) IsSuperAdmin() bool {
	return rbac.IsSuperAdmin(a.Role)
}
