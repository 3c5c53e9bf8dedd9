// Package rbac implements the role-based access control model of the admin panel.
//
// The model is deliberately static: a fixed set of roles, a fixed set of
// permissions (capabilities) and a Table that maps every role to the explicit
// set of permissions it holds. There is no inheritance between roles; a role's
// authority is exactly its set.
//
// # Capability checks
//
// Table.HasPermission answers "does role R hold capability C". It is a pure,
// total function: unknown roles resolve to the VIEWER set and never to an
// error, so API handlers can map a false result straight to HTTP 403.
//
// # Page access
//
// Table.CanAccessPage answers "may role R view URL path P". Paths are matched
// against an ordered list of PageRule values, first match wins. The admin login
// path is always accessible. Unmatched paths under the admin prefix are denied,
// everything else is allowed. The evaluator never redirects; callers decide
// what to do with a denial.
//
// The same Table is consulted by the edge guard middleware and again by the
// server-rendered admin layout, so both layers always agree for a given
// (role, path) pair.
//
// # Roles at the boundary
//
// NormalizeRole converts the raw role string of a session or user row into a
// Role once per request. Handlers receive the typed value and never re-derive it.
//
// Example usage:
//
//	table := rbac.DefaultTable()
//
//	role := rbac.NormalizeRole(user.Role)
//	if !table.HasPermission(role, rbac.PermManageEvents) {
//	    return c.Status(fiber.StatusForbidden).JSON(...)
//	}
//
//	if !table.CanAccessPage(role, c.Path()) {
//	    return c.Redirect(rbac.ForbiddenPath)
//	}
package rbac
